package research

import (
	"fmt"
	"strings"

	"github.com/scrypster/showscout/internal/llm"
	"github.com/scrypster/showscout/pkg/types"
)

// notFound marks a field the backend could find no trustworthy answer for.
// It is an explicit absence, distinct from a lookup failure reason.
const notFound = "not_found"

// normalizeResult turns the executor's structured output into a
// display-ready FieldResult using the field's rendering rule. The switch is
// exhaustive over the closed field set.
func normalizeResult(field types.Field, obj map[string]any) types.FieldResult {
	switch field {
	case types.FieldYouTube:
		url, ok := llm.StringField(obj, "youtube_url")
		if !ok {
			url, ok = llm.StringField(obj, "url")
		}
		if !ok {
			url, ok = llm.StringField(obj, "fallback_search_url")
		}
		if !ok {
			return types.ErrResult(notFound)
		}
		return types.OkResult(types.FieldValue{
			URL:      url,
			Markdown: fmt.Sprintf("[Watch](%s)", url),
		})

	case types.FieldBio:
		bio, ok := llm.StringField(obj, "bio")
		if !ok || bio == notFound {
			return types.ErrResult(notFound)
		}
		return types.OkResult(types.FieldValue{
			Bio:      bio,
			Markdown: fmt.Sprintf("**Bio:** %s", bio),
		})

	case types.FieldGenres:
		genres := llm.StringSliceField(obj, "genres")
		if len(genres) == 0 {
			return types.ErrResult(notFound)
		}
		return types.OkResult(types.FieldValue{
			Genres:   genres,
			Markdown: fmt.Sprintf("**Genres:** %s", strings.Join(genres, ", ")),
		})

	case types.FieldWebsite:
		label, labelOK := llm.StringField(obj, "label")
		url, urlOK := llm.StringField(obj, "url")
		if !labelOK || !urlOK || label == notFound {
			return types.ErrResult(notFound)
		}
		return types.OkResult(types.FieldValue{
			Label:    label,
			URL:      url,
			Markdown: fmt.Sprintf("[%s](%s)", label, url),
		})

	case types.FieldMusic:
		platform, platOK := llm.StringField(obj, "platform")
		url, urlOK := llm.StringField(obj, "url")
		if !platOK || !urlOK || platform == notFound {
			return types.ErrResult(notFound)
		}
		return types.OkResult(types.FieldValue{
			Platform: platform,
			URL:      url,
			Markdown: fmt.Sprintf("[%s](%s)", platform, url),
		})
	}

	return types.ErrResult(fmt.Sprintf("unknown field: %s", field))
}
