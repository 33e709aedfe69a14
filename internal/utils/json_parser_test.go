package utils

import (
	"testing"
)

func TestDecodeModelJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    map[string]interface{}
		wantErr bool
	}{
		{
			name:  "Pure JSON",
			input: `{"search_intent": true, "area": "南山"}`,
			want: map[string]interface{}{
				"search_intent": true,
				"area":          "南山",
			},
			wantErr: false,
		},
		{
			name: "JSON in markdown code block",
			input: "```json\n" +
				`{"search_intent": false, "max_price": 4000}` + "\n```",
			want: map[string]interface{}{
				"search_intent": false,
				"max_price":     float64(4000),
			},
			wantErr: false,
		},
		{
			name: "JSON in bare code block",
			input: "```\n" +
				`{"area": "福田"}` + "\n```",
			want: map[string]interface{}{
				"area": "福田",
			},
			wantErr: false,
		},
		{
			name:  "JSON with surrounding text",
			input: `好的，结果如下：{"search_intent": true, "max_price": 5000} 以上。`,
			want: map[string]interface{}{
				"search_intent": true,
				"max_price":     float64(5000),
			},
			wantErr: false,
		},
		{
			name:  "JSON with trailing comma",
			input: `{"area": "南山", "max_price": 3000,}`,
			want: map[string]interface{}{
				"area":      "南山",
				"max_price": float64(3000),
			},
			wantErr: false,
		},
		{
			name:  "JSON with BOM prefix",
			input: "\uFEFF" + `{"area": "罗湖"}`,
			want: map[string]interface{}{
				"area": "罗湖",
			},
			wantErr: false,
		},
		{
			name:    "Empty string",
			input:   "",
			wantErr: true,
		},
		{
			name:    "Plain prose",
			input:   "我想在南山找个一室一厅",
			wantErr: true,
		},
		{
			name:    "Unbalanced braces",
			input:   `{"area": "南山"`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got map[string]interface{}
			err := DecodeModelJSON(tt.input, &got)

			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeModelJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) != len(tt.want) {
				t.Errorf("DecodeModelJSON() got = %v, want %v", got, tt.want)
			}
			for k, want := range tt.want {
				if got[k] != want {
					t.Errorf("DecodeModelJSON() field %q = %v, want %v", k, got[k], want)
				}
			}
		})
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "json-tagged fence",
			input: "```json\n{\"test\": true}\n```",
			want:  `{"test": true}`,
		},
		{
			name:  "bare fence",
			input: "```\n{\"test\": true}\n```",
			want:  `{"test": true}`,
		},
		{
			name:  "fenced non-JSON ignored",
			input: "```\nhello world\n```",
			want:  "",
		},
		{
			name:  "no fence",
			input: `{"test": true}`,
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripCodeFence(tt.input); got != tt.want {
				t.Errorf("stripCodeFence() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFirstJSONValue(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "object in prose",
			input: `前缀 {"a": 1} 后缀`,
			want:  `{"a": 1}`,
		},
		{
			name:  "nested object",
			input: `{"a": {"b": 2}}`,
			want:  `{"a": {"b": 2}}`,
		},
		{
			name:  "braces inside string",
			input: `{"text": "Hello {world}"}`,
			want:  `{"text": "Hello {world}"}`,
		},
		{
			name:  "array",
			input: `结果 [1, 2, 3]`,
			want:  `[1, 2, 3]`,
		},
		{
			name:  "nothing",
			input: "no json here",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := firstJSONValue(tt.input); got != tt.want {
				t.Errorf("firstJSONValue() = %v, want %v", got, tt.want)
			}
		})
	}
}
