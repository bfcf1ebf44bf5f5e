package actionparse

import (
	"testing"

	"github.com/lumina-ai/lumina/domain/entities"
)

func TestParse_OpenApp(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantTarget string
		wantApp    string
	}{
		{"english resolved", "open spotify", "com.spotify.music", "spotify"},
		{"english with suffix", "Open the Spotify app please", "com.spotify.music", "spotify"},
		{"launch verb", "launch whatsapp", "com.whatsapp", "whatsapp"},
		{"french resolved", "ouvre whatsapp", "com.whatsapp", "whatsapp"},
		{"french with article", "ouvre l'horloge", "com.android.deskclock", "horloge"},
		{"unresolved passes through", "open mycustomapp", "mycustomapp", "mycustomapp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action := Parse(tt.text)
			if action == nil {
				t.Fatalf("Parse(%q) returned nil", tt.text)
			}
			if action.Type != entities.ActionOpenApp {
				t.Errorf("Expected open_app, got %s", action.Type)
			}
			if action.Target != tt.wantTarget {
				t.Errorf("Expected target %q, got %q", tt.wantTarget, action.Target)
			}
			if action.Params["app_name"] != tt.wantApp {
				t.Errorf("Expected app_name %q, got %q", tt.wantApp, action.Params["app_name"])
			}
		})
	}
}

func TestParse_SendMessage(t *testing.T) {
	action := Parse("send a message to alice saying running late")
	if action == nil {
		t.Fatal("Parse returned nil")
	}
	if action.Type != entities.ActionSendMessage {
		t.Fatalf("Expected send_message, got %s", action.Type)
	}
	if action.Params["to"] != "alice" {
		t.Errorf("Expected recipient 'alice', got %q", action.Params["to"])
	}
	if action.Params["body"] != "running late" {
		t.Errorf("Expected body 'running late', got %q", action.Params["body"])
	}
}

func TestParse_SendMessage_French(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"envoie un message", "envoie un message à marie disant je suis en route"},
		{"écris à", "écris à marie bonjour"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action := Parse(tt.text)
			if action == nil {
				t.Fatalf("Parse(%q) returned nil", tt.text)
			}
			if action.Type != entities.ActionSendMessage {
				t.Fatalf("Expected send_message, got %s", action.Type)
			}
			if action.Params["to"] != "marie" {
				t.Errorf("Expected recipient 'marie', got %q", action.Params["to"])
			}
		})
	}
}

func TestParse_MakeCall(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantTarget string
		wantKey    string
	}{
		{"contact name", "call mom", "mom", "contact"},
		{"phone number", "call +1 (555) 123-4567", "+1 (555) 123-4567", "number"},
		{"french contact", "appelle papa", "papa", "contact"},
		{"french telephone", "téléphone à marie", "marie", "contact"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action := Parse(tt.text)
			if action == nil {
				t.Fatalf("Parse(%q) returned nil", tt.text)
			}
			if action.Type != entities.ActionMakeCall {
				t.Fatalf("Expected make_call, got %s", action.Type)
			}
			if action.Target != tt.wantTarget {
				t.Errorf("Expected target %q, got %q", tt.wantTarget, action.Target)
			}
			if action.Params[tt.wantKey] != tt.wantTarget {
				t.Errorf("Expected %s=%q, got %q", tt.wantKey, tt.wantTarget, action.Params[tt.wantKey])
			}
		})
	}
}

func TestParse_Navigate(t *testing.T) {
	action := Parse("navigate to central station")
	if action == nil {
		t.Fatal("Parse returned nil")
	}
	if action.Type != entities.ActionNavigate {
		t.Fatalf("Expected navigate, got %s", action.Type)
	}
	if action.Params["destination"] != "central station" {
		t.Errorf("Expected destination 'central station', got %q", action.Params["destination"])
	}
}

func TestParse_PlayMusic(t *testing.T) {
	tests := []struct {
		text      string
		wantQuery string
	}{
		{"play some jazz", "jazz"},
		{"play the song bohemian rhapsody", "bohemian rhapsody"},
		{"joue de la musique classique", "musique classique"},
		{"écoute du jazz", "jazz"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			action := Parse(tt.text)
			if action == nil {
				t.Fatalf("Parse(%q) returned nil", tt.text)
			}
			if action.Type != entities.ActionPlayMusic {
				t.Fatalf("Expected play_music, got %s", action.Type)
			}
			if action.Params["query"] != tt.wantQuery {
				t.Errorf("Expected query %q, got %q", tt.wantQuery, action.Params["query"])
			}
		})
	}
}

func TestParse_SetAlarm(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantHour   string
		wantMinute string
	}{
		{"colon time", "set an alarm for 7:30", "7", "30"},
		{"am pm", "set an alarm for 7 pm", "19", "00"},
		{"o'clock", "wake me at 6 o'clock", "6", "00"},
		{"french h notation", "mets une alarme à 7h30", "7", "30"},
		{"french heures", "réveille-moi à 8 heures", "8", "00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action := Parse(tt.text)
			if action == nil {
				t.Fatalf("Parse(%q) returned nil", tt.text)
			}
			if action.Type != entities.ActionSetAlarm {
				t.Fatalf("Expected set_alarm, got %s", action.Type)
			}
			if action.Params["hour"] != tt.wantHour {
				t.Errorf("Expected hour %q, got %q", tt.wantHour, action.Params["hour"])
			}
			if action.Params["minute"] != tt.wantMinute {
				t.Errorf("Expected minute %q, got %q", tt.wantMinute, action.Params["minute"])
			}
		})
	}
}

func TestParse_PriorityOrder(t *testing.T) {
	// "open" outranks "play": open-app is the first group.
	action := Parse("open spotify and play some jazz")
	if action == nil {
		t.Fatal("Parse returned nil")
	}
	if action.Type != entities.ActionOpenApp {
		t.Errorf("Expected open_app to win, got %s", action.Type)
	}
}

func TestParse_NoMatch(t *testing.T) {
	texts := []string{
		"the weather today is sunny with a light breeze",
		"je vais très bien, merci",
		"",
	}
	for _, text := range texts {
		if action := Parse(text); action != nil {
			t.Errorf("Parse(%q) = %+v, want nil", text, action)
		}
	}
}
