package language

import "testing"

func TestExtractPreferredLanguageTag(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantTag string
		wantOK  bool
	}{
		{"english directive", "please speak in French", "fr", true},
		{"switch directive", "switch to Spanish", "es", true},
		{"respond directive", "respond in German from now on", "de", true},
		{"french directive", "parle en anglais", "en", true},
		{"french switch", "passe au français", "fr", true},
		{"french respond", "réponds en italien", "it", true},
		{"unknown language", "speak in klingon", "", false},
		{"no directive", "what's the weather like in France", "", false},
		{"mention without directive", "I love the French language", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag, ok := ExtractPreferredLanguageTag(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("ExtractPreferredLanguageTag(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
			}
			if tag != tt.wantTag {
				t.Errorf("ExtractPreferredLanguageTag(%q) = %q, want %q", tt.text, tag, tt.wantTag)
			}
		})
	}
}

func TestDetectLanguageTag_Scripts(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantTag string
	}{
		{"japanese kana", "こんにちは、元気ですか", "ja"},
		{"korean hangul", "안녕하세요 반갑습니다", "ko"},
		{"arabic", "مرحبا كيف حالك", "ar"},
		{"russian cyrillic", "Привет, как дела?", "ru"},
		{"hindi devanagari", "नमस्ते आप कैसे हैं", "hi"},
		{"chinese ideographs", "你好，今天天气很好", "zh"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag, ok := DetectLanguageTag(tt.text)
			if !ok {
				t.Fatalf("DetectLanguageTag(%q) returned not-ok", tt.text)
			}
			if tag != tt.wantTag {
				t.Errorf("DetectLanguageTag(%q) = %q, want %q", tt.text, tag, tt.wantTag)
			}
		})
	}
}

func TestDetectLanguageTag_KanaBeatsCJK(t *testing.T) {
	// Japanese text usually mixes kana with CJK ideographs; kana wins.
	tag, ok := DetectLanguageTag("日本語を話します")
	if !ok || tag != "ja" {
		t.Errorf("Expected ja for mixed kana/ideograph text, got %q (ok=%v)", tag, ok)
	}
}

func TestDetectLanguageTag_StopWords(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantTag string
	}{
		{"french greeting", "Bonjour, comment puis-je vous aider?", "fr"},
		{"english sentence", "the weather is nice and you should go outside", "en"},
		{"spanish sentence", "hola, cómo está usted el día de hoy", "es"},
		{"german sentence", "ich kann dir mit der Aufgabe nicht helfen", "de"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag, ok := DetectLanguageTag(tt.text)
			if !ok {
				t.Fatalf("DetectLanguageTag(%q) returned not-ok", tt.text)
			}
			if tag != tt.wantTag {
				t.Errorf("DetectLanguageTag(%q) = %q, want %q", tt.text, tag, tt.wantTag)
			}
		})
	}
}

func TestDetectLanguageTag_TooShort(t *testing.T) {
	if tag, ok := DetectLanguageTag("le chat"); ok {
		t.Errorf("Expected not-ok for two tokens, got %q", tag)
	}
}

func TestDetectLanguageTag_Ambiguous(t *testing.T) {
	// No stop words at all.
	if tag, ok := DetectLanguageTag("purple elephant dancing quickly tonight"); ok {
		t.Errorf("Expected not-ok for matchless text, got %q", tag)
	}
}

func TestDetectLanguageTag_Idempotent(t *testing.T) {
	text := "Bonjour, comment puis-je vous aider?"
	first, ok1 := DetectLanguageTag(text)
	second, ok2 := DetectLanguageTag(text)
	if first != second || ok1 != ok2 {
		t.Errorf("Detection not stable: (%q,%v) then (%q,%v)", first, ok1, second, ok2)
	}
}
