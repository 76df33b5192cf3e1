package identity

// Aliases holds the hand-maintained mapping tables consumed by the Resolver.
// The tables are treated as immutable after construction.
type Aliases struct {
	// BySource maps the exact raw spelling used by one source to a key.
	BySource map[Source]map[string]TeamKey
	// Canonical maps a normalized spelling to its key.
	Canonical map[string]TeamKey
	// Exceptions rewrites normalized forms that would otherwise collide or
	// produce a malformed key.
	Exceptions map[string]string
}

// Canonical short spellings for the current Série A season.
const (
	KeyAtleticoMG    TeamKey = "Atlético-MG"
	KeyBahia         TeamKey = "Bahia"
	KeyBotafogo      TeamKey = "Botafogo"
	KeyCeara         TeamKey = "Ceará"
	KeyCorinthians   TeamKey = "Corinthians"
	KeyCruzeiro      TeamKey = "Cruzeiro"
	KeyFlamengo      TeamKey = "Flamengo"
	KeyFluminense    TeamKey = "Fluminense"
	KeyFortaleza     TeamKey = "Fortaleza"
	KeyGremio        TeamKey = "Grêmio"
	KeyInternacional TeamKey = "Internacional"
	KeyJuventude     TeamKey = "Juventude"
	KeyMirassol      TeamKey = "Mirassol"
	KeyPalmeiras     TeamKey = "Palmeiras"
	KeyRBBragantino  TeamKey = "RB Bragantino"
	KeySantos        TeamKey = "Santos"
	KeySaoPaulo      TeamKey = "São Paulo"
	KeySport         TeamKey = "Sport"
	KeyVasco         TeamKey = "Vasco"
	KeyVitoria       TeamKey = "Vitória"
)

// AllKeys lists every canonical key, in table order.
func AllKeys() []TeamKey {
	return []TeamKey{
		KeyAtleticoMG, KeyBahia, KeyBotafogo, KeyCeara, KeyCorinthians,
		KeyCruzeiro, KeyFlamengo, KeyFluminense, KeyFortaleza, KeyGremio,
		KeyInternacional, KeyJuventude, KeyMirassol, KeyPalmeiras,
		KeyRBBragantino, KeySantos, KeySaoPaulo, KeySport, KeyVasco, KeyVitoria,
	}
}

// DefaultAliases builds the season's mapping tables. The per-source entries
// cover spellings that normalization alone cannot reconcile.
func DefaultAliases() Aliases {
	officialAPI := map[string]TeamKey{
		"Atlético Mineiro Saf":          KeyAtleticoMG,
		"Red Bull Bragantino":           KeyRBBragantino,
		"Sport Recife":                  KeySport,
		"Vasco da Gama":                 KeyVasco,
		"Botafogo de Futebol e Regatas": KeyBotafogo,
	}

	officialSite := map[string]TeamKey{
		"Atlético Mineiro - MG":    KeyAtleticoMG,
		"Red Bull Bragantino - SP": KeyRBBragantino,
		"Sport - PE":               KeySport,
		"Vasco da Gama - RJ":       KeyVasco,
		"São Paulo - SP":           KeySaoPaulo,
	}

	thirdParty := map[string]TeamKey{
		"Atlético Mineiro":    KeyAtleticoMG,
		"Red Bull Bragantino": KeyRBBragantino,
		"Sport Recife":        KeySport,
		"Vasco da Gama":       KeyVasco,
	}

	canonical := make(map[string]TeamKey, 20)
	for _, key := range AllKeys() {
		canonical[NormalizeTeamName(string(key))] = key
	}

	exceptions := map[string]string{
		"redbullbragantino": "rbbragantino",
		"atleticomineiro":   "atleticomg",
		"sportrecife":       "sport",
		"vascodagama":       "vasco",
	}

	return Aliases{
		BySource: map[Source]map[string]TeamKey{
			SourceOfficialAPI:  officialAPI,
			SourceOfficialSite: officialSite,
			SourceThirdParty:   thirdParty,
		},
		Canonical:  canonical,
		Exceptions: exceptions,
	}
}
