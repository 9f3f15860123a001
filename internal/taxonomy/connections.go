package taxonomy

import "github.com/alfredjeanlab/cinemap/internal/model"

func edge(id, from, to string, strength int, explanation string) model.Connection {
	return model.Connection{ID: id, From: from, To: to, Strength: strength, Explanation: explanation}
}

var seedConnections = []model.Connection{
	edge("seed-premise-conflict", NodePremise, NodeConflict, 5,
		"The premise only becomes drama once something opposes it."),
	edge("seed-conflict-stakes", NodeConflict, NodeStakes, 4,
		"Conflict matters in proportion to what can be lost."),
	edge("seed-arc-theme", NodeCharacterArc, NodeTheme, 5,
		"The character's change is the theme's argument made flesh."),
	edge("seed-subtext-performance", NodeSubtext, NodePerformance, 4,
		"Actors carry what the dialogue leaves unsaid."),
	edge("seed-pov-cinematography", NodePointOfView, NodeCinematography, 5,
		"Lens and placement decide whose eyes the audience borrows."),
	edge("seed-tension-pacing", NodeTension, NodePacing, 4,
		"How long the audience waits is how tension is tuned."),
	edge("seed-inciting-premise", NodeIncitingEvent, NodePremise, 4,
		"The inciting incident poses the premise's question on screen."),
	edge("seed-midpoint-arc", NodeMidpoint, NodeCharacterArc, 3,
		"The midpoint reversal usually forces the inner change to begin."),
	edge("seed-setup-climax", NodeSetupPayoff, NodeClimax, 5,
		"A satisfying climax spends what earlier scenes planted."),
	edge("seed-threeact-midpoint", NodeThreeAct, NodeMidpoint, 3,
		"The midpoint divides the long second act."),
	edge("seed-sceneturn-editing", NodeSceneTurn, NodeEditing, 3,
		"Where the cut lands decides where the turn is felt."),
	edge("seed-pacing-rhythm", NodePacing, "edit-rhythm", 5,
		"Shot duration is the editor's direct control over pacing."),
	edge("seed-theme-palette", NodeTheme, "color-palette", 3,
		"A committed palette lets color argue the theme."),
	edge("seed-lighting-temperature", "light-motivated", "color-temperature", 3,
		"The motivating source sets the temperature the grade respects."),
	edge("seed-dof-pov", "cine-depth-of-field", NodePointOfView, 3,
		"What is sharp is what the character notices."),
	edge("seed-mix-tension", "sound-mix", NodeTension, 4,
		"Pulling sound out is one of the strongest tension tools."),
	edge("seed-easing-camera", "motion-easing", "motion-camera-move", 2,
		"Eased camera moves read as intention rather than machinery."),
	edge("seed-blocking-stakes", "perf-blocking", NodeStakes, 2,
		"Distance between actors can show what is at risk between them."),
	edge("seed-set-theme", "design-set", NodeTheme, 2,
		"The world characters live in can embody what the story argues."),
}
