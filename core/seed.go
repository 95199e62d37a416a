package core

// DemoGames is the starter catalog loaded when seeding is enabled and the
// games table is empty. Image paths are served by the HTTP adapter.
func DemoGames() []Game {
	return []Game{
		{
			Name: "The Legend of Zelda: Breath of the Wild", Price: 59.99, Genre: "Aventura",
			ImageURL: "/static/img/zelda-botw.svg",
			Comments: []Comment{
				{Text: "Un mundo abierto enorme, no te cansas de explorar."},
				{Text: "Los santuarios son lo mejor del juego."},
			},
		},
		{
			Name: "Hollow Knight", Price: 14.99, Genre: "Metroidvania",
			ImageURL: "/static/img/hollow-knight.svg",
			Comments: []Comment{
				{Text: "Difícil pero muy justo."},
			},
		},
		{
			Name: "Stardew Valley", Price: 13.99, Genre: "Simulación",
			ImageURL: "/static/img/stardew-valley.svg",
		},
		{
			Name: "Celeste", Price: 19.99, Genre: "Plataformas",
			ImageURL: "/static/img/celeste.svg",
			Comments: []Comment{
				{Text: "La banda sonora es increíble."},
			},
		},
		{
			Name: "Hades", Price: 24.99, Genre: "Roguelike",
			ImageURL: "/static/img/hades.svg",
		},
	}
}
