package coze

import "encoding/json"

// workflowOutput matches the two structured shapes the service has used for
// its data payload.
type workflowOutput struct {
	Output string `json:"output"`
	Result string `json:"result"`
}

func (o workflowOutput) text() (string, bool) {
	if o.Output != "" {
		return o.Output, true
	}
	if o.Result != "" {
		return o.Result, true
	}
	return "", false
}

// normalizeData extracts the prompt text from the workflow data payload.
// The shape has drifted across service versions, so a closed set of
// variants is tried in priority order:
//
//  1. a JSON-encoded string whose parsed form has output/result;
//  2. a structured object with output/result;
//  3. opaque passthrough: the string verbatim, or the whole structure
//     re-serialized.
func normalizeData(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		var inner workflowOutput
		if err := json.Unmarshal([]byte(asString), &inner); err == nil {
			if text, ok := inner.text(); ok {
				return text
			}
		}
		return asString
	}

	var structured workflowOutput
	if err := json.Unmarshal(raw, &structured); err == nil {
		if text, ok := structured.text(); ok {
			return text
		}
	}

	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return string(raw)
	}
	pretty, err := json.MarshalIndent(generic, "", "  ")
	if err != nil {
		return string(raw)
	}

	return string(pretty)
}
