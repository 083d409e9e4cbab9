package notify

import (
	"strings"
	"testing"
)

func TestNormalizePhoneNumber(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"0712345678", "+254712345678", false},
		{"0112345678", "+254112345678", false},
		{"254712345678", "+254712345678", false},
		{"+254712345678", "+254712345678", false},
		{"0712 345 678", "+254712345678", false},
		{"0712-345-678", "+254712345678", false},
		{"", "", true},
		{"12345", "", true},
		{"0812345678", "", true},
		{"07123456789", "", true},
	}
	for _, tc := range cases {
		got, err := NormalizePhoneNumber(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("NormalizePhoneNumber(%q) should fail, got %q", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("NormalizePhoneNumber(%q) failed: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("NormalizePhoneNumber(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestLoadTemplatesAndRender(t *testing.T) {
	tpl, err := LoadTemplates()
	if err != nil {
		t.Fatalf("LoadTemplates failed: %v", err)
	}

	msg, err := tpl.Render("training_reminder", map[string]string{
		"household": "Achieng Family",
		"title":     "Financial Literacy",
		"date":      "12 Sep 2026",
	})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	for _, want := range []string{"Achieng Family", "Financial Literacy", "12 Sep 2026"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("rendered message missing %q: %s", want, msg)
		}
	}
	if strings.Contains(msg, "{") {
		t.Fatalf("rendered message has unfilled placeholder: %s", msg)
	}

	if _, err := tpl.Render("no_such_template", nil); err == nil {
		t.Fatalf("unknown template must fail")
	}
}

func TestRenderLeavesUnknownPlaceholders(t *testing.T) {
	tpl := &Templates{messages: map[string]string{"x": "hello {name}, today is {date}"}}
	msg, err := tpl.Render("x", map[string]string{"name": "Atieno"})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(msg, "{date}") {
		t.Fatalf("unfilled placeholder should remain visible: %s", msg)
	}
}
