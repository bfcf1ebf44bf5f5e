// Package actionparse extracts a structured device action from free-form
// assistant text, for agent backends that cannot return actions natively.
// Matching is first-match over an ordered list of bilingual trigger groups,
// so the group order is part of the contract.
package actionparse

import (
	"regexp"
	"strings"

	"github.com/lumina-ai/lumina/domain/entities"
)

type ruleGroup struct {
	action  entities.ActionType
	trigger *regexp.Regexp
	extract func(lower string, m []string) (target string, params map[string]string)
}

// Group order is a fixed priority: open-app, send-message, make-call,
// navigate, play-music, set-alarm.
var ruleGroups = []ruleGroup{
	{
		action:  entities.ActionOpenApp,
		trigger: regexp.MustCompile(`\b(?:open|launch|ouvre|lance|démarre|demarre)\s+(?:the\s+|l'|la\s+|le\s+)?([\p{L}\d][\p{L}\d ]*)`),
		extract: extractOpenApp,
	},
	{
		action:  entities.ActionSendMessage,
		// \b is ASCII-only in RE2, so alternatives touching accented
		// letters use explicit whitespace anchors instead.
		trigger: regexp.MustCompile(`(?:^|\s)(?:send (?:a )?message|text|envoie (?:un )?message|écris à|ecris a)(?:\s|$)`),
		extract: extractSendMessage,
	},
	{
		action:  entities.ActionMakeCall,
		trigger: regexp.MustCompile(`(?:^|\s)(?:call|make a call|appelle|téléphone à|telephone a|passe un appel)(?:\s|$)`),
		extract: extractMakeCall,
	},
	{
		action:  entities.ActionNavigate,
		trigger: regexp.MustCompile(`\b(?:navigate to|take me to|directions to|emmène-moi à|emmene-moi a|itinéraire vers|itineraire vers|conduis-moi à|conduis-moi a)\s+(.+)`),
		extract: extractNavigate,
	},
	{
		action:  entities.ActionPlayMusic,
		// "mets" requires an article so "mets une alarme" falls through
		// to the set-alarm group.
		trigger: regexp.MustCompile(`(?:^|\s)(?:play|put on|joue|écoute|ecoute)\s+(.+)|(?:^|\s)mets\s+(?:de la|du|la|le)\s+(.+)`),
		extract: extractPlayMusic,
	},
	{
		action:  entities.ActionSetAlarm,
		trigger: regexp.MustCompile(`\b(?:set (?:an |the )?alarm|wake me|mets une alarme|règle une alarme|regle une alarme|réveille-moi|reveille-moi)\b`),
		extract: extractSetAlarm,
	},
}

// Parse returns the first action whose trigger group matches the text, or
// nil when no group matches.
func Parse(text string) *entities.DeviceAction {
	lower := strings.ToLower(text)
	for _, g := range ruleGroups {
		m := g.trigger.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		target, params := g.extract(lower, m)
		return &entities.DeviceAction{Type: g.action, Target: target, Params: params}
	}
	return nil
}

var (
	appSuffixes = []string{" app", " application", " please", " s'il te plaît", " s'il te plait", " s'il vous plaît", " s'il vous plait"}

	phonePattern = regexp.MustCompile(`(\+?\d[\d\s().-]{5,}\d)`)
	// Bare unaccented "a" is excluded: it collides with the English
	// article in "send a message". "à" needs a whitespace anchor since
	// \b does not see non-ASCII letters.
	recipientAfter = regexp.MustCompile(`(?:^|\s)(?:to|à)\s+([\p{L}\d]+)`)
	bodyAfter      = regexp.MustCompile(`\b(?:saying|that says|disant|qui dit)\s+(.+)`)
	callTarget     = regexp.MustCompile(`\b(?:call|appelle|téléphone à|telephone a)\s+([\p{L}\d][\p{L}\d ]*)`)
	alarmLabel     = regexp.MustCompile(`\b(?:for|called|labeled|pour|nommée|nommee)\s+([\p{L}\d][\p{L}\d ]*)`)

	// Alarm time formats, tried in order: H:MM, French HhMM, H am/pm,
	// H o'clock, "H heures MM".
	timeColon   = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
	timeFrenchH = regexp.MustCompile(`\b(\d{1,2})h(\d{2})?\b`)
	timeAmPm    = regexp.MustCompile(`\b(\d{1,2})\s*(am|pm)\b`)
	timeOClock  = regexp.MustCompile(`\b(\d{1,2})\s+o'?clock\b`)
	timeHeures  = regexp.MustCompile(`\b(\d{1,2})\s+heures?(?:\s+(\d{2}))?\b`)
)

func trimPoliteness(s string) string {
	s = strings.TrimRight(strings.TrimSpace(s), ".!?")
	for _, suf := range []string{" please", " merci", " s'il te plaît", " s'il te plait", " s'il vous plaît", " s'il vous plait"} {
		s = strings.TrimSuffix(s, suf)
	}
	return strings.TrimSpace(s)
}

func extractOpenApp(_ string, m []string) (string, map[string]string) {
	name := trimPoliteness(m[1])
	for _, suf := range appSuffixes {
		name = strings.TrimSuffix(name, suf)
	}
	name = strings.TrimSpace(name)
	if pkg, ok := appPackages[name]; ok {
		return pkg, map[string]string{"app_name": name}
	}
	// Unresolved names pass through for the executor to interpret
	return name, map[string]string{"app_name": name}
}

func extractSendMessage(lower string, _ []string) (string, map[string]string) {
	params := map[string]string{}
	if m := recipientAfter.FindStringSubmatch(lower); m != nil {
		params["to"] = m[1]
	}
	if m := bodyAfter.FindStringSubmatch(lower); m != nil {
		params["body"] = trimPoliteness(m[1])
	}
	return params["to"], params
}

func extractMakeCall(lower string, _ []string) (string, map[string]string) {
	params := map[string]string{}
	if m := phonePattern.FindStringSubmatch(lower); m != nil {
		params["number"] = strings.TrimSpace(m[1])
		return params["number"], params
	}
	if m := callTarget.FindStringSubmatch(lower); m != nil {
		name := trimPoliteness(m[1])
		params["contact"] = name
		return name, params
	}
	return "", params
}

func extractNavigate(_ string, m []string) (string, map[string]string) {
	dest := trimPoliteness(m[1])
	return dest, map[string]string{"destination": dest}
}

func extractPlayMusic(_ string, m []string) (string, map[string]string) {
	raw := m[1]
	if raw == "" {
		raw = m[2]
	}
	query := trimPoliteness(raw)
	for _, prefix := range []string{"some ", "de la ", "du ", "la chanson ", "the song "} {
		query = strings.TrimPrefix(query, prefix)
	}
	return query, map[string]string{"query": query}
}

func extractSetAlarm(lower string, _ []string) (string, map[string]string) {
	params := map[string]string{}
	hour, minute, ok := extractTime(lower)
	if ok {
		params["hour"] = hour
		params["minute"] = minute
	}
	if m := alarmLabel.FindStringSubmatch(lower); m != nil {
		params["label"] = trimPoliteness(m[1])
	}
	if ok {
		return hour + ":" + minute, params
	}
	return "", params
}

func extractTime(lower string) (hour, minute string, ok bool) {
	if m := timeColon.FindStringSubmatch(lower); m != nil {
		return m[1], m[2], true
	}
	if m := timeFrenchH.FindStringSubmatch(lower); m != nil {
		if m[2] == "" {
			m[2] = "00"
		}
		return m[1], m[2], true
	}
	if m := timeAmPm.FindStringSubmatch(lower); m != nil {
		return meridiemHour(m[1], m[2]), "00", true
	}
	if m := timeOClock.FindStringSubmatch(lower); m != nil {
		return m[1], "00", true
	}
	if m := timeHeures.FindStringSubmatch(lower); m != nil {
		if m[2] == "" {
			m[2] = "00"
		}
		return m[1], m[2], true
	}
	return "", "", false
}

func meridiemHour(h, meridiem string) string {
	if meridiem != "pm" {
		if h == "12" {
			return "0"
		}
		return h
	}
	switch h {
	case "1":
		return "13"
	case "2":
		return "14"
	case "3":
		return "15"
	case "4":
		return "16"
	case "5":
		return "17"
	case "6":
		return "18"
	case "7":
		return "19"
	case "8":
		return "20"
	case "9":
		return "21"
	case "10":
		return "22"
	case "11":
		return "23"
	}
	return h // 12pm stays 12
}
