package scores365

type competitionEnvelope struct {
	Competitors []competitorDoc `json:"competitors"`
}

type competitorDoc struct {
	Name       string         `json:"name"`
	ShortName  string         `json:"symbolicName"`
	ImageURL   string         `json:"imageUrl"`
	Statistics []statisticDoc `json:"statistics"`
}

type statisticDoc struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type lineupEnvelope struct {
	HomeFormation string       `json:"homeFormation"`
	AwayFormation string       `json:"awayFormation"`
	Members       []memberDoc  `json:"members"`
	Missing       []missingDoc `json:"missingPlayers"`
}

type memberDoc struct {
	TeamName    string       `json:"competitorName"`
	Name        string       `json:"name"`
	JerseyNum   string       `json:"jerseyNum"`
	Position    string       `json:"position"`
	Starter     bool         `json:"isStarter"`
	FieldCoords *coordinates `json:"fieldPosition"`
}

type coordinates struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type missingDoc struct {
	TeamName string `json:"competitorName"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Reason   string `json:"reason"`
}

type photoIndexEnvelope struct {
	Athletes []athleteDoc `json:"athletes"`
}

type athleteDoc struct {
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}
