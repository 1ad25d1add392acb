package types

import "testing"

func TestParseNoCache(t *testing.T) {
	truthy := []string{"true", "TRUE", " True ", "1", "yes", "YES"}
	for _, raw := range truthy {
		if !ParseNoCache(raw) {
			t.Errorf("ParseNoCache(%q) = false, want true", raw)
		}
	}
	falsy := []string{"", "false", "0", "no", "ja", "y"}
	for _, raw := range falsy {
		if ParseNoCache(raw) {
			t.Errorf("ParseNoCache(%q) = true, want false", raw)
		}
	}
}

func TestIsValidField(t *testing.T) {
	for _, f := range AllFields {
		if !IsValidField(f) {
			t.Errorf("IsValidField(%s) = false", f)
		}
	}
	for _, f := range []Field{"bio_genres", "discography", ""} {
		if IsValidField(f) {
			t.Errorf("IsValidField(%s) = true", f)
		}
	}
}

func TestArtistRecordComplete(t *testing.T) {
	expected := []Field{FieldBio, FieldYouTube}
	rec := &ArtistRecord{Artist: "Quasi"}
	if rec.Complete(expected) {
		t.Error("empty record reported complete")
	}

	rec.Set(FieldBio, OkResult(FieldValue{Bio: "b", Markdown: "**Bio:** b"}))
	if rec.Complete(expected) {
		t.Error("partial record reported complete")
	}

	// A failed field still counts toward completion.
	rec.Set(FieldYouTube, ErrResult("timeout"))
	if !rec.Complete(expected) {
		t.Error("record with error entry reported incomplete")
	}

	// Entries preserve arrival order.
	if rec.Entries[0].Field != FieldBio || rec.Entries[1].Field != FieldYouTube {
		t.Errorf("entry order = %v, %v", rec.Entries[0].Field, rec.Entries[1].Field)
	}
}

func TestStreamEventTerminal(t *testing.T) {
	if Datapoint("Quasi", FieldBio, ErrResult("x")).Terminal() {
		t.Error("datapoint reported terminal")
	}
	if !Complete().Terminal() {
		t.Error("complete marker not terminal")
	}
	if !ErrorEvent("boom").Terminal() {
		t.Error("error frame not terminal")
	}
}
