package actionparse

// appPackages resolves common spoken app names to platform package
// identifiers. Names not present here pass through unresolved.
var appPackages = map[string]string{
	"spotify":     "com.spotify.music",
	"whatsapp":    "com.whatsapp",
	"youtube":     "com.google.android.youtube",
	"maps":        "com.google.android.apps.maps",
	"google maps": "com.google.android.apps.maps",
	"chrome":      "com.android.chrome",
	"gmail":       "com.google.android.gm",
	"instagram":   "com.instagram.android",
	"facebook":    "com.facebook.katana",
	"twitter":     "com.twitter.android",
	"netflix":     "com.netflix.mediaclient",
	"telegram":    "org.telegram.messenger",
	"camera":      "com.android.camera",
	"settings":    "com.android.settings",
	"phone":       "com.android.dialer",
	"téléphone":   "com.android.dialer",
	"telephone":   "com.android.dialer",
	"messages":    "com.google.android.apps.messaging",
	"calendar":    "com.google.android.calendar",
	"calendrier":  "com.google.android.calendar",
	"clock":       "com.android.deskclock",
	"horloge":     "com.android.deskclock",
	"photos":      "com.google.android.apps.photos",
	"appareil photo": "com.android.camera",
	"paramètres":     "com.android.settings",
	"parametres":     "com.android.settings",
}
