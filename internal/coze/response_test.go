package coze

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeData(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "json-encoded string with output",
			raw:  `"{\"output\":\"a cat\"}"`,
			want: "a cat",
		},
		{
			name: "json-encoded string with result",
			raw:  `"{\"result\":\"a fox\"}"`,
			want: "a fox",
		},
		{
			name: "structured object with result",
			raw:  `{"result":"a dog"}`,
			want: "a dog",
		},
		{
			name: "structured object with output",
			raw:  `{"output":"a bird"}`,
			want: "a bird",
		},
		{
			name: "output preferred over result",
			raw:  `{"output":"first","result":"second"}`,
			want: "first",
		},
		{
			name: "unparseable string passes through verbatim",
			raw:  `"unparseable-string"`,
			want: "unparseable-string",
		},
		{
			name: "object without known fields is re-serialized",
			raw:  `{"answer":42}`,
			want: "{\n  \"answer\": 42\n}",
		},
		{
			name: "empty data",
			raw:  ``,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeData(json.RawMessage(tt.raw))
			assert.Equal(t, tt.want, got)
		})
	}
}
