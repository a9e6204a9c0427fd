package model

import "fmt"

// Well-known metadata keys.
const (
	MetaPromptText   = "prompt_text"
	MetaResponseText = "response_text"
	MetaCode         = "code"
	MetaLanguage     = "language"
	MetaQuery        = "query"
	MetaMessage      = "message"
	MetaQuestion     = "question"
	MetaAnswer       = "answer"
	MetaTable        = "table"
	MetaColumn       = "column"
	MetaInteraction  = "interaction_id"
)

// requiredMeta lists the metadata keys each kind must carry. Kinds not
// listed have no required metadata.
var requiredMeta = map[EventKind][]string{
	KindAIPrompt:          {MetaPromptText},
	KindAIResponse:        {MetaResponseText},
	KindCodeRun:           {MetaCode, MetaLanguage},
	KindSQLRun:            {MetaQuery},
	KindQueryModified:     {MetaQuery},
	KindErrorOccurred:     {MetaMessage},
	KindInterviewQuestion: {MetaQuestion},
	KindInterviewAnswer:   {MetaAnswer},
	KindTablePreviewed:    {MetaTable},
	KindColumnInspected:   {MetaColumn},
}

// ValidateMetadata checks the fixed metadata contract for the event's
// kind. It returns the first missing key as an error; events with no
// contract always pass.
func ValidateMetadata(e Event) error {
	for _, key := range requiredMeta[e.Kind] {
		if e.MetaString(key) == "" {
			return fmt.Errorf("event kind %s: missing metadata %q", e.Kind, key)
		}
	}
	return nil
}
