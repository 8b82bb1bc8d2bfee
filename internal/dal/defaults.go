package dal

import "github.com/Billy-Davies-2/bracket-champs/internal/models"

func intPtr(v int) *int       { return &v }
func boolPtr(v bool) *bool    { return &v }
func strPtr(v string) *string { return &v }

// DefaultCatalog returns a fresh copy of the fixture catalog
func DefaultCatalog() *models.Catalog {
	return &models.Catalog{
		Matchups:          getDefaultMatchups(),
		FriendLeaderboard: getDefaultFriendLeaderboard(),
		CampusLeaderboard: getDefaultCampusLeaderboard(),
		GroupLeaderboard:  getDefaultGroupLeaderboard(),
		GlobalLeaderboard: getDefaultGlobalLeaderboard(),
		DripItems:         getDefaultDripItems(),
		Schedule:          getDefaultSchedule(),
		FriendPicks:       getDefaultFriendPicks(),
		People: []models.Person{
			{Name: models.CurrentUser, Emoji: "😎"},
			{Name: "Cosmo Kramer", Emoji: "🤪"},
			{Name: "Sarah B.", Emoji: "🔥"},
		},
		ScoreUpdates: getDefaultScoreUpdates(),
		Recap:        getDefaultRecap(),
	}
}

func blaze(points ...string) models.Commish {
	return models.Commish{Name: "Coach Blaze", Emoji: "🔥", Points: points}
}

func carl(points ...string) models.Commish {
	return models.Commish{Name: "Ice Cold Carl", Emoji: "🧊", Points: points}
}

func getDefaultMatchups() []models.Matchup {
	return []models.Matchup{
		{
			ID: 1, Round: "Round of 64", PickPercentA: 74, PickPercentB: 26,
			TeamA: models.Team{Name: "Duke", Seed: 1, Mascot: "Blue Devils", Record: "29-3", Conference: "ACC", Color: "#003087"},
			TeamB: models.Team{Name: "Vermont", Seed: 16, Mascot: "Catamounts", Record: "24-8", Conference: "America East", Color: "#006633"},
			CommishA: blaze(
				"Duke's freshmen are BUILT different — three top-10 recruits who live for March",
				"Coach K's legacy lives on — this program has more Final Four trips than your school has wins",
				"Their defense is suffocating — opponents shoot 38% against them. Good luck, Vermont 🥶",
			),
			CommishB: carl(
				"Vermont has won 17 STRAIGHT. That's not a team, that's a freight train with no brakes 🚂",
				"Their senior point guard averages 8 assists — he's been here before and he's not scared",
				"Everyone picked Duke. But you're not everyone, are you? 👀 Upset alert!",
			),
		},
		{
			ID: 2, Round: "Round of 64", PickPercentA: 62, PickPercentB: 38,
			TeamA: models.Team{Name: "Kentucky", Seed: 4, Mascot: "Wildcats", Record: "25-7", Conference: "SEC", Color: "#0033A0"},
			TeamB: models.Team{Name: "Oregon", Seed: 13, Mascot: "Ducks", Record: "23-9", Conference: "Pac-12", Color: "#154733"},
			CommishA: blaze(
				"Kentucky's big man is a MONSTER — 18 pts, 11 boards, and he blocks shots like it's personal",
				"Rupp Arena raised these boys. The SEC tournament was just a warm-up 💪",
				"BBN travels DEEP. Oregon's gonna feel like the away team in their own region",
			),
			CommishB: carl(
				"Oregon's 3-point shooting is top 10 nationally. They'll light Kentucky UP from deep 🎯",
				"The Ducks run in transition like they stole something — Kentucky can't keep up",
				"Phil Knight didn't invest billions in Nike for Oregon to lose in the first round 😤",
			),
		},
		{
			ID: 3, Round: "Round of 64", PickPercentA: 81, PickPercentB: 19,
			TeamA: models.Team{Name: "UConn", Seed: 2, Mascot: "Huskies", Record: "28-4", Conference: "Big East", Color: "#000E2F"},
			TeamB: models.Team{Name: "New Mexico", Seed: 15, Mascot: "Lobos", Record: "22-10", Conference: "MWC", Color: "#BA0C2F"},
			CommishA: blaze(
				"UConn just won back-to-back titles. You think they're done? They're HUNGRY for a three-peat 🏆",
				"Their depth is insane — 9 players averaging 20+ minutes. Fresh legs all game long",
				"The Huskies play defense like they're guarding their lunch money. Nobody eats.",
			),
			CommishB: carl(
				"New Mexico's altitude training is real — their players literally have more oxygen capacity 🫁",
				"The Lobos' guard play is electric — fastest backcourt in the Mountain West",
				"15-seeds upset 2-seeds every year. EVERY. YEAR. History is on the Lobos' side 📊",
			),
		},
		{
			ID: 4, Round: "Round of 64", PickPercentA: 55, PickPercentB: 45,
			TeamA: models.Team{Name: "Gonzaga", Seed: 3, Mascot: "Bulldogs", Record: "27-5", Conference: "WCC", Color: "#002967"},
			TeamB: models.Team{Name: "Penn", Seed: 14, Mascot: "Quakers", Record: "21-9", Conference: "Ivy League", Color: "#011F5B"},
			CommishA: blaze(
				"Gonzaga has been to the last 25 tournaments. That's not a program, that's a DYNASTY 👑",
				"Their international pipeline produces NBA talent every year — this team has future pros",
				"The Bulldogs shoot 50% from the field. Half the time, the ball goes in. Every. Time.",
			),
			CommishB: carl(
				"Penn's Ivy League smarts extend to the court — their offensive efficiency is TOP 20 nationally 🧠",
				"The Quakers have a chip on their shoulder the size of the Liberty Bell",
				"Nobody expects Penn. And that's EXACTLY why they'll win. The bracket needs chaos! 🌪️",
			),
		},
	}
}

func getDefaultFriendLeaderboard() []models.LeaderboardEntry {
	return []models.LeaderboardEntry{
		{Rank: 1, Name: models.CurrentUser, Avatar: "😎", Points: 320, CorrectPicks: 12, Drip: 5, RankChange: intPtr(2), GroupPickSamePct: intPtr(72)},
		{Rank: 2, Name: "Cosmo Kramer", Avatar: "🤪", Points: 290, CorrectPicks: 11, Drip: 4, RankChange: intPtr(-1), GroupPickSamePct: intPtr(68)},
		{Rank: 3, Name: "Sarah B.", Avatar: "🔥", Points: 260, CorrectPicks: 10, Drip: 3, RankChange: intPtr(0), GroupPickSamePct: intPtr(65)},
		{Rank: 4, Name: "Mike T.", Avatar: "🏀", Points: 220, CorrectPicks: 8, Drip: 2, RankChange: intPtr(-1), GroupPickSamePct: intPtr(54)},
		{Rank: 5, Name: "Jess R.", Avatar: "💪", Points: 180, CorrectPicks: 7, Drip: 1, RankChange: intPtr(0), GroupPickSamePct: intPtr(48)},
	}
}

func getDefaultCampusLeaderboard() []models.CampusEntry {
	return []models.CampusEntry{
		{
			Rank: 1, Group: "Penn Quakers", Emoji: "🔴", Members: 147, TotalPoints: 12400, AvgPoints: 84,
			TopPlayers: []models.TopPlayer{
				{Name: "Alex M.", Points: 340, Avatar: "🎓"},
				{Name: "Jordan K.", Points: 315, Avatar: "📚"},
				{Name: "Riley S.", Points: 290, Avatar: "🦅"},
				{Name: "Casey L.", Points: 275, Avatar: "🏀"},
				{Name: "Morgan P.", Points: 260, Avatar: "🎯"},
			},
		},
		{
			Rank: 2, Group: "Oregon Ducks", Emoji: "🦆", Members: 132, TotalPoints: 11200, AvgPoints: 85,
			TopPlayers: []models.TopPlayer{
				{Name: "Tyler B.", Points: 380, Avatar: "🦆"},
				{Name: "Sam C.", Points: 330, Avatar: "🌲"},
				{Name: "Drew F.", Points: 305, Avatar: "🏔️"},
				{Name: "Parker G.", Points: 280, Avatar: "🎮"},
				{Name: "Quinn H.", Points: 255, Avatar: "🎵"},
			},
		},
		{
			Rank: 3, Group: "Texas Longhorns", Emoji: "🤘", Members: 198, TotalPoints: 15800, AvgPoints: 80,
			TopPlayers: []models.TopPlayer{
				{Name: "Austin R.", Points: 360, Avatar: "🤘"},
				{Name: "Tex W.", Points: 335, Avatar: "🌵"},
				{Name: "Lone S.", Points: 310, Avatar: "⭐"},
				{Name: "Bevo T.", Points: 285, Avatar: "🐂"},
				{Name: "Hook E.", Points: 260, Avatar: "🎸"},
			},
		},
		{
			Rank: 4, Group: "Michigan Wolverines", Emoji: "〽️", Members: 165, TotalPoints: 12800, AvgPoints: 78,
			TopPlayers: []models.TopPlayer{
				{Name: "Maize B.", Points: 350, Avatar: "〽️"},
				{Name: "Blue C.", Points: 325, Avatar: "🏈"},
				{Name: "Ann A.", Points: 300, Avatar: "📖"},
				{Name: "Wolver D.", Points: 275, Avatar: "🐺"},
				{Name: "Go Blue E.", Points: 250, Avatar: "💛"},
			},
		},
		{
			Rank: 5, Group: "UCLA Bruins", Emoji: "🐻", Members: 121, TotalPoints: 9200, AvgPoints: 76,
			TopPlayers: []models.TopPlayer{
				{Name: "Bruin A.", Points: 330, Avatar: "🐻"},
				{Name: "Sunset B.", Points: 305, Avatar: "🌅"},
				{Name: "Westwood C.", Points: 280, Avatar: "🏄"},
				{Name: "Pacific D.", Points: 255, Avatar: "🌊"},
				{Name: "Gold E.", Points: 230, Avatar: "⭐"},
			},
		},
	}
}

func getDefaultGroupLeaderboard() []models.GroupEntry {
	you := models.GroupMember{Name: models.CurrentUser, Avatar: "😎", Points: 320, CorrectPicks: 12}
	return []models.GroupEntry{
		{
			Rank: 1, Name: "Mike's March Madness", Emoji: "🎯", Members: 6, TotalPoints: 2400, AvgPoints: 400,
			MemberDetails: []models.GroupMember{
				{Name: "Mike D.", Avatar: "🎯", Points: 480, CorrectPicks: 18},
				{Name: "Sarah T.", Avatar: "🔥", Points: 420, CorrectPicks: 16},
				{Name: "Jay R.", Avatar: "🏀", Points: 400, CorrectPicks: 15},
				you,
				{Name: "Kim L.", Avatar: "💪", Points: 290, CorrectPicks: 11},
				{Name: "Tom B.", Avatar: "🤙", Points: 240, CorrectPicks: 9},
			},
		},
		{
			Rank: 2, Name: "BAMTech Mafia", Emoji: "💀", Members: 8, TotalPoints: 2100, AvgPoints: 263,
			MemberDetails: []models.GroupMember{
				{Name: "Boss A.", Avatar: "💀", Points: 460, CorrectPicks: 17},
				{Name: "Code B.", Avatar: "💻", Points: 380, CorrectPicks: 14},
				{Name: "Dev C.", Avatar: "🛠️", Points: 350, CorrectPicks: 13},
				you,
				{Name: "Stack D.", Avatar: "📦", Points: 250, CorrectPicks: 9},
			},
		},
		{
			Rank: 3, Name: "Hoops & Dreams", Emoji: "✨", Members: 5, TotalPoints: 1800, AvgPoints: 360,
			MemberDetails: []models.GroupMember{
				{Name: "Dream A.", Avatar: "✨", Points: 450, CorrectPicks: 17},
				{Name: "Hoop B.", Avatar: "🏀", Points: 390, CorrectPicks: 15},
				{Name: "Swish C.", Avatar: "🎯", Points: 360, CorrectPicks: 14},
				{Name: "Net D.", Avatar: "🕸️", Points: 340, CorrectPicks: 13},
				{Name: "Shot E.", Avatar: "🎳", Points: 310, CorrectPicks: 12},
			},
		},
		{
			Rank: 4, Name: "The Bracket Busters", Emoji: "💥", Members: 7, TotalPoints: 1750, AvgPoints: 250,
			MemberDetails: []models.GroupMember{
				{Name: "Bust A.", Avatar: "💥", Points: 440, CorrectPicks: 16},
				{Name: "Break B.", Avatar: "🔨", Points: 370, CorrectPicks: 14},
				{Name: "Crash C.", Avatar: "💣", Points: 340, CorrectPicks: 13},
				you,
			},
		},
		{
			Rank: 5, Name: "Corner Three Club", Emoji: "🎯", Members: 4, TotalPoints: 1400, AvgPoints: 350,
			MemberDetails: []models.GroupMember{
				{Name: "Three A.", Avatar: "3️⃣", Points: 420, CorrectPicks: 16},
				{Name: "Corner B.", Avatar: "📐", Points: 390, CorrectPicks: 15},
				{Name: "Arc C.", Avatar: "🌈", Points: 360, CorrectPicks: 14},
				{Name: "Deep D.", Avatar: "🎯", Points: 330, CorrectPicks: 13},
			},
		},
	}
}

// The global board intentionally skips from #3 to #42.
func getDefaultGlobalLeaderboard() []models.LeaderboardEntry {
	return []models.LeaderboardEntry{
		{Rank: 1, Name: "BracketKing2026", Avatar: "👑", Points: 480, CorrectPicks: 18, Drip: 12, RankChange: intPtr(0)},
		{Rank: 2, Name: "MarchMadnessQueen", Avatar: "👸", Points: 460, CorrectPicks: 17, Drip: 11, RankChange: intPtr(1)},
		{Rank: 3, Name: "CinderellaHunter", Avatar: "🎃", Points: 440, CorrectPicks: 16, Drip: 9, RankChange: intPtr(-1)},
		{Rank: 42, Name: models.CurrentUser, Avatar: "😎", Points: 320, CorrectPicks: 12, Drip: 5, RankChange: intPtr(2)},
	}
}

func getDefaultDripItems() []models.DripItem {
	return []models.DripItem{
		{ID: "1", Name: "Duke Jersey", Team: "Duke", Rarity: models.RarityCommon, Emoji: "👕", Earned: true, PickPct: intPtr(74)},
		{ID: "2", Name: "Kentucky Kicks", Team: "Kentucky", Rarity: models.RarityRare, Emoji: "👟", Earned: true, PickPct: intPtr(38)},
		{ID: "3", Name: "UConn Championship Ring", Team: "UConn", Rarity: models.RarityEpic, Emoji: "💍", Earned: true, PickPct: intPtr(19)},
		{ID: "4", Name: "Golden Basketball", Team: "Global", Rarity: models.RarityLegendary, Emoji: "🏀", Earned: false, PickPct: intPtr(7)},
		{ID: "5", Name: "Vermont Beanie", Team: "Vermont", Rarity: models.RarityCommon, Emoji: "🧢", Earned: true, PickPct: intPtr(54)},
		{ID: "6", Name: "Oregon Shades", Team: "Oregon", Rarity: models.RarityRare, Emoji: "🕶️", Earned: false, PickPct: intPtr(32)},
		{ID: "7", Name: "Gonzaga Chain", Team: "Gonzaga", Rarity: models.RarityEpic, Emoji: "⛓️", Earned: false, PickPct: intPtr(22)},
		{ID: "8", Name: "March Madness Trophy", Team: "Global", Rarity: models.RarityLegendary, Emoji: "🏆", Earned: false, PickPct: intPtr(5)},
		{ID: "9", Name: "Group MVP Trophy", Team: "Global", Rarity: models.RarityEpic, Emoji: "🏅", Earned: false, PickPct: intPtr(18)},
		{ID: "10", Name: "Campus Champion Banner", Team: "Global", Rarity: models.RarityLegendary, Emoji: "🎌", Earned: false, PickPct: intPtr(5)},
		{ID: "11", Name: "Top 5% Global Badge", Team: "Global", Rarity: models.RarityLegendary, Emoji: "⭐", Earned: false, PickPct: intPtr(4)},
	}
}

func pick(matchup int, team string, correct *bool) models.BracketPick {
	return models.BracketPick{Matchup: matchup, Team: team, Correct: correct}
}

func getDefaultSchedule() []models.BracketGameDay {
	return []models.BracketGameDay{
		{Date: "Thursday, March 19", Label: "Round of 64 — Day 1", Round: "Round of 64", GamesCount: 16,
			Picks: []models.BracketPick{pick(0, "Duke", boolPtr(true)), pick(1, "Oregon", boolPtr(false))}},
		{Date: "Friday, March 20", Label: "Round of 64 — Day 2", Round: "Round of 64", GamesCount: 16,
			Picks: []models.BracketPick{pick(2, "UConn", boolPtr(true)), pick(3, "Gonzaga", boolPtr(true))}},
		{Date: "Saturday, March 21", Label: "Round of 32 — Day 1", Round: "Round of 32", GamesCount: 8,
			Picks: []models.BracketPick{pick(0, "Duke", nil)}},
		{Date: "Sunday, March 22", Label: "Round of 32 — Day 2", Round: "Round of 32", GamesCount: 8,
			Picks: []models.BracketPick{pick(2, "UConn", nil)}},
		{Date: "Thursday, March 26", Label: "Sweet 16 — Day 1", Round: "Sweet 16", GamesCount: 4, Picks: []models.BracketPick{}},
		{Date: "Friday, March 27", Label: "Sweet 16 — Day 2", Round: "Sweet 16", GamesCount: 4, Picks: []models.BracketPick{}},
		{Date: "Saturday, March 28", Label: "Elite 8 — Day 1", Round: "Elite 8", GamesCount: 2, Picks: []models.BracketPick{}},
		{Date: "Sunday, March 29", Label: "Elite 8 — Day 2", Round: "Elite 8", GamesCount: 2, Picks: []models.BracketPick{}},
		{Date: "Saturday, April 4", Label: "Final Four", Round: "Final Four", GamesCount: 2, Picks: []models.BracketPick{}},
		{Date: "Monday, April 6", Label: "Championship", Round: "Championship", GamesCount: 1, Picks: []models.BracketPick{}},
	}
}

func emptyDays(n int) [][]models.BracketPick {
	days := make([][]models.BracketPick, n)
	for i := range days {
		days[i] = []models.BracketPick{}
	}
	return days
}

func getDefaultFriendPicks() map[string][][]models.BracketPick {
	return map[string][][]models.BracketPick{
		"Cosmo Kramer": append([][]models.BracketPick{
			{pick(0, "Vermont", boolPtr(false)), pick(1, "Kentucky", boolPtr(true))},
			{pick(2, "New Mexico", boolPtr(false)), pick(3, "Penn", boolPtr(false))},
			{pick(0, "Duke", nil)},
			{pick(2, "UConn", nil)},
		}, emptyDays(6)...),
		"Sarah B.": append([][]models.BracketPick{
			{pick(0, "Duke", boolPtr(true)), pick(1, "Kentucky", boolPtr(true))},
			{pick(2, "UConn", boolPtr(true)), pick(3, "Gonzaga", boolPtr(true))},
			{pick(0, "Duke", nil)},
			{pick(2, "UConn", nil)},
		}, emptyDays(6)...),
	}
}

func getDefaultScoreUpdates() []models.ScoreUpdate {
	return []models.ScoreUpdate{
		{
			TeamA: "Kentucky", ScoreA: 85, TeamB: "Oregon", ScoreB: 77, Status: "Final", CampusTeam: strPtr("Oregon"),
			Narrative: "Kentucky's big man dominated the paint with 24 points and 13 rebounds. Oregon's 3-point shooting went cold in the second half — they shot just 2-for-14 from deep after halftime. BBN goes wild! 🔥",
		},
		{
			TeamA: "Duke", ScoreA: 92, TeamB: "Vermont", ScoreB: 58, Status: "Final",
			Narrative: "Duke's freshmen showed up and showed OUT. Vermont's 17-game win streak is done. The Blue Devils are dancing to the Round of 32! 😈",
		},
		{
			TeamA: "UConn", ScoreA: 71, TeamB: "New Mexico", ScoreB: 65, Status: "Final",
			Narrative: "The Lobos made it interesting! New Mexico hung tough until the final 3 minutes, but UConn's championship DNA kicked in. The three-peat dream lives on... barely. 😮‍💨",
		},
	}
}

func getDefaultRecap() models.RoundRecap {
	return models.RoundRecap{
		Round: "Round of 64",
		Upsets: []models.Upset{
			{Team: "Vermont", Opponent: "Duke", MissedByPct: 74, Description: "Vermont nearly did it — 74% missed this one"},
			{Team: "New Mexico", Opponent: "UConn", MissedByPct: 61, Description: "New Mexico pushed UConn to the wire — 61% got burned"},
		},
		GroupCorrectPct: 68,
		GroupTeam:       "Kentucky",
		BiggestAnomaly:  "Only 7% picked UConn to win by fewer than 10 points",
		CampusShift:     models.CampusShift{Group: "Penn Quakers", Emoji: "🔴", From: 3, To: 1},
	}
}
