package catalog

// Default returns the built-in game catalog.
func Default() *Catalog {
	c, err := New(defaultItems(), defaultSegments(), defaultContexts())
	if err != nil {
		panic("catalog: invalid built-in catalog: " + err.Error())
	}
	return c
}

func defaultItems() []Item {
	return []Item{
		"Minecraft",
		"Grand Theft Auto V",
		"The Legend of Zelda: Breath of the Wild",
		"Fortnite",
		"Call of Duty: Warzone",
		"League of Legends",
		"The Witcher 3",
		"Red Dead Redemption 2",
		"Elden Ring",
		"FIFA 24",
	}
}

func defaultSegments() []Tag {
	return []Tag{
		{Code: "C", Label: "Jugador casual"},
		{Code: "H", Label: "Jugador hardcore"},
		{Code: "M", Label: "Multiplayer / competitivo"},
		{Code: "S", Label: "Single player / historia"},
	}
}

func defaultContexts() []Tag {
	return []Tag{
		{Code: "D", Label: "¿Cuál es más divertido?"},
		{Code: "H", Label: "¿Cuál tiene mejor historia?"},
		{Code: "M", Label: "¿Cuál es mejor para jugar con amigos?"},
		{Code: "C", Label: "¿Cuál es más competitivo?"},
	}
}
