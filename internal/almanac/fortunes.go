// Package almanac holds the static reference tables for kagami: fortune levels,
// blood-type advice, micro-seasons and the festival calendar. All data is
// read-only and loaded once; lookups never fail, they fall back.
package almanac

// BloodType is the user's self-reported blood type.
type BloodType string

const (
	BloodA       BloodType = "A"
	BloodB       BloodType = "B"
	BloodO       BloodType = "O"
	BloodAB      BloodType = "AB"
	BloodUnknown BloodType = ""
)

// AllBloodTypes lists the concrete types (Unknown excluded).
var AllBloodTypes = []BloodType{BloodA, BloodB, BloodO, BloodAB}

// Advice holds per-category advice text for a fortune level.
type Advice struct {
	Work   string `json:"work"`
	Love   string `json:"love"`
	Health string `json:"health"`
	Money  string `json:"money"`
}

// FortuneLevel is one row of the 7-level omikuji table.
type FortuneLevel struct {
	ID        int    `json:"id"` // 1..7, 1 is best
	Name      string `json:"name"`
	NameJA    string `json:"nameJa"`
	Proverb   string `json:"proverb"`
	ProverbJA string `json:"proverbJa"`
	Advice    Advice `json:"advice"`
	Color     string `json:"color"`
}

// Fortunes is the fixed omikuji table, index i holds id i+1.
var Fortunes = []FortuneLevel{
	{
		ID: 1, Name: "Great Blessing", NameJA: "大吉",
		Proverb:   "Even dust, piled up, becomes a mountain.",
		ProverbJA: "塵も積もれば山となる",
		Advice: Advice{
			Work:   "Bold moves land well today. Say yes to the bigger task.",
			Love:   "An honest word opens a door you thought was closed.",
			Health: "Energy runs high. Spend some of it outdoors.",
			Money:  "A good day for a planned purchase, not an impulsive one.",
		},
		Color: "#D64545",
	},
	{
		ID: 2, Name: "Middle Blessing", NameJA: "中吉",
		Proverb:   "Fall down seven times, stand up eight.",
		ProverbJA: "七転び八起き",
		Advice: Advice{
			Work:   "Steady progress beats a sprint. Finish what is half done.",
			Love:   "Listen twice as much as you speak.",
			Health: "A short walk clears more than your legs.",
			Money:  "Small savings add up. Skip one convenience today.",
		},
		Color: "#E2883C",
	},
	{
		ID: 3, Name: "Small Blessing", NameJA: "小吉",
		Proverb:   "A journey of a thousand ri begins with a single step.",
		ProverbJA: "千里の道も一歩から",
		Advice: Advice{
			Work:   "Start the thing you keep postponing, even badly.",
			Love:   "A small kindness will be remembered longer than you expect.",
			Health: "Drink water before you think you need it.",
			Money:  "Check a subscription you forgot about.",
		},
		Color: "#E8B93B",
	},
	{
		ID: 4, Name: "Blessing", NameJA: "吉",
		Proverb:   "The protruding stake gets hammered in.",
		ProverbJA: "出る杭は打たれる",
		Advice: Advice{
			Work:   "Quiet competence is noticed. No need to announce it.",
			Love:   "Let an old disagreement stay old.",
			Health: "Stretch before the day stiffens you.",
			Money:  "Neither lend nor borrow today.",
		},
		Color: "#7FA65A",
	},
	{
		ID: 5, Name: "Late Blessing", NameJA: "末吉",
		Proverb:   "Good things come to those who wait.",
		ProverbJA: "果報は寝て待て",
		Advice: Advice{
			Work:   "The answer you want is coming. Do not force it early.",
			Love:   "Patience today is affection tomorrow.",
			Health: "Sleep is the cheapest medicine. Take a full dose.",
			Money:  "Hold. This is not the week to decide.",
		},
		Color: "#5A8FA6",
	},
	{
		ID: 6, Name: "Misfortune", NameJA: "凶",
		Proverb:   "Even monkeys fall from trees.",
		ProverbJA: "猿も木から落ちる",
		Advice: Advice{
			Work:   "Double-check before you send. Today favors the careful.",
			Love:   "A joke can land wrong. Choose warmth over wit.",
			Health: "Lighter meals, earlier night.",
			Money:  "Avoid anything with fine print.",
		},
		Color: "#6B6B7E",
	},
	{
		ID: 7, Name: "Great Misfortune", NameJA: "大凶",
		Proverb:   "After the rain, the ground hardens.",
		ProverbJA: "雨降って地固まる",
		Advice: Advice{
			Work:   "Keep your head down and your drafts private.",
			Love:   "Silence is safer than a sharp reply.",
			Health: "Treat yourself gently. This day passes.",
			Money:  "Spend nothing you cannot see in your hand.",
		},
		Color: "#3E3E4F",
	},
}

// FortuneByID returns the fortune row for id 1..7, or the middle row (id 4)
// for anything out of range.
func FortuneByID(id int) FortuneLevel {
	if id < 1 || id > len(Fortunes) {
		return Fortunes[3]
	}
	return Fortunes[id-1]
}

// BloodTypeWorkAdvice maps blood type -> fortune id -> work advice.
// Complete for all four types and all seven ids.
var BloodTypeWorkAdvice = map[BloodType]map[int]string{
	BloodA: {
		1: "Your planning pays off. Present the proposal you polished.",
		2: "Your checklist is your ally. Work it top to bottom.",
		3: "Perfection can wait. Ship the eighty-percent version.",
		4: "Others rely on your steadiness. Be the calm in the meeting.",
		5: "Resist reorganizing everything today. One drawer is enough.",
		6: "Your worry is louder than the problem. Write it down and park it.",
		7: "Do the routine tasks only. Structure will carry you through.",
	},
	BloodB: {
		1: "Your wild idea is actually good. Pitch it before lunch.",
		2: "Follow your curiosity, but leave a trail others can follow.",
		3: "Variety keeps you sharp. Rotate between two tasks.",
		4: "Finish one thing completely before the next shiny thing.",
		5: "Your pace is your own. Ignore the clock-watchers.",
		6: "Improvising today invites trouble. Borrow someone's plan.",
		7: "Stay off the main stage. Tinker quietly where mistakes are cheap.",
	},
	BloodO: {
		1: "Lead from the front. People will follow you today.",
		2: "Your confidence opens doors. Knock on the big one.",
		3: "Delegate one thing you always hoard.",
		4: "Big-picture day. Leave the details to the detail people.",
		5: "Hold the goal loosely and the team tightly.",
		6: "Your bluntness can bruise. Soften the first sentence.",
		7: "Ambition rests too. Keep today small on purpose.",
	},
	BloodAB: {
		1: "Your two-sided view spots what everyone missed. Speak up.",
		2: "Bridge the two camps arguing past each other.",
		3: "Your cool head is needed in a warm room.",
		4: "Switch between logic and feeling as the moment asks.",
		5: "Keep your own counsel until the picture is whole.",
		6: "Detachment reads as coldness today. Add one warm word.",
		7: "Step back entirely. Observation is your best contribution.",
	},
}

// WorkAdvice resolves blood-type-specific work advice for a fortune,
// falling back to the fortune's generic work advice when no specific
// entry exists. Resolution order is fixed: specific table, then generic.
func WorkAdvice(bt BloodType, fortuneID int) string {
	if byID, ok := BloodTypeWorkAdvice[bt]; ok {
		if advice, ok := byID[fortuneID]; ok {
			return advice
		}
	}
	return FortuneByID(fortuneID).Advice.Work
}
