package cbf

// The official API speaks Portuguese. Envelopes below mirror the JSON
// field names it uses; mapping to neutral names happens in the client.

type roundEnvelope struct {
	Rodada   int        `json:"rodada"`
	Partidas []matchDoc `json:"partidas"`
}

type matchDoc struct {
	ID              int64      `json:"id"`
	DataRealizacao  string     `json:"data_realizacao"`
	HoraRealizacao  string     `json:"hora_realizacao"`
	Estadio         stadiumDoc `json:"estadio"`
	TimeCasa        teamDoc    `json:"time_casa"`
	TimeVisitante   teamDoc    `json:"time_visitante"`
	PlacarCasa      *int       `json:"placar_casa"`
	PlacarVisitante *int       `json:"placar_visitante"`
	Documentos      []document `json:"documentos"`
	Cartoes         []cardDoc  `json:"cartoes"`
}

type stadiumDoc struct {
	Nome string `json:"nome"`
}

type teamDoc struct {
	ID   int64  `json:"id"`
	Nome string `json:"nome"`
}

type document struct {
	Nome string `json:"nome"`
	URL  string `json:"url"`
}

type cardDoc struct {
	Atleta string `json:"atleta"`
	Equipe string `json:"equipe"`
	Tipo   string `json:"tipo"`
}

type standingsEnvelope struct {
	Classificacao []standingDoc `json:"classificacao"`
}

type standingDoc struct {
	Posicao      int    `json:"posicao"`
	Equipe       string `json:"equipe"`
	Pontos       int    `json:"pontos"`
	Jogos        int    `json:"jogos"`
	UltimosJogos string `json:"ultimos_jogos"`
}
