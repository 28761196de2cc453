package main

import (
	"strings"
	"testing"
)

func TestMatchAnswer(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string // substring of the expected reply
	}{
		{"exact", "list the hotels in france", "Here are the hotels in France"},
		{"case and spaces", "  List the Hotels in FRANCE ", "Here are the hotels in France"},
		{"fuzzy overlap", "tell me the prices for triple premium rooms in paris", "Triple Premium Room prices in Paris"},
		{"half board", "meal charge for half board paris", "Half Board in Paris"},
		{"no match", "can I bring my dog", "demo backend with canned answers"},
		{"empty", "", "demo backend with canned answers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchAnswer(tt.query); !strings.Contains(got, tt.want) {
				t.Errorf("matchAnswer(%q) = %q, want it to contain %q", tt.query, got, tt.want)
			}
		})
	}
}

func TestMatchAnswerThreshold(t *testing.T) {
	// "list the hotels in france" has 5 words; 3 shared is exactly 60%.
	if got := matchAnswer("list hotels france"); !strings.Contains(got, "hotels in France") {
		t.Errorf("60%% overlap did not match: %q", got)
	}
	// 2 of 5 is 40%, and no other question shares enough words.
	if got := matchAnswer("list france"); got != fallbackReply {
		t.Errorf("40%% overlap matched: %q", got)
	}
}

func TestSanitizeQuery(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  hello\x00 world\x07 ", "hello world"},
		{"tab\tand\nnewline", "tab\tand\nnewline"},
		{"호텔 😀", "호텔 😀"},
		{strings.Repeat("a", maxQueryLen+10), strings.Repeat("a", maxQueryLen)},
	}
	for _, tt := range tests {
		if got := sanitizeQuery(tt.in); got != tt.want {
			t.Errorf("sanitizeQuery(%.20q) = %.20q, want %.20q", tt.in, got, tt.want)
		}
	}
}

func TestQueryOf(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`{"content":"hello","timestamp":1}`, "hello"},
		{`{"content":""}`, ""},
		{`plain text`, "plain text"},
		{`{"text":"no content field"}`, `{"text":"no content field"}`},
	}
	for _, tt := range tests {
		if got := queryOf([]byte(tt.in)); got != tt.want {
			t.Errorf("queryOf(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
