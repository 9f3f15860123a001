package taxonomy

import "github.com/alfredjeanlab/cinemap/internal/model"

// Seed node IDs referenced by connections and tests.
const (
	NodePremise        = "story-premise"
	NodeStakes         = "story-stakes"
	NodeConflict       = "story-conflict"
	NodeCharacterArc   = "story-character-arc"
	NodeTheme          = "story-theme"
	NodeSubtext        = "story-subtext"
	NodePointOfView    = "story-point-of-view"
	NodeTension        = "story-tension"
	NodeThreeAct       = "struct-three-act"
	NodeIncitingEvent  = "struct-inciting-incident"
	NodeMidpoint       = "struct-midpoint"
	NodeClimax         = "struct-climax"
	NodeSetupPayoff    = "struct-setup-payoff"
	NodeSceneTurn      = "struct-scene-turn"
	NodePacing         = "struct-pacing"
	NodeCinematography = "dom-cinematography"
	NodeLighting       = "dom-lighting"
	NodeColor          = "dom-color"
	NodeSound          = "dom-sound"
	NodeEditing        = "dom-editing"
	NodeMotion         = "dom-motion"
	NodeDesign         = "dom-production-design"
	NodePerformance    = "dom-performance"
)

func story(id, title, definition, problem, misuse, example string) model.Node {
	return model.Node{
		ID:                id,
		Layer:             model.LayerStorytelling,
		Title:             title,
		Definition:        definition,
		ProblemSolved:     problem,
		MisuseConsequence: misuse,
		Example:           example,
	}
}

func structure(id, title, definition, problem, misuse, example string) model.Node {
	n := story(id, title, definition, problem, misuse, example)
	n.Layer = model.LayerStructure
	return n
}

func domainNode(id string, d model.Domain, title, definition, problem, misuse, example string) model.Node {
	n := story(id, title, definition, problem, misuse, example)
	n.Layer = model.LayerDomain
	n.Domain = d
	return n
}

func child(parent model.Node, id, title, definition, problem, misuse, example string) model.Node {
	n := domainNode(id, parent.Domain, title, definition, problem, misuse, example)
	n.Subgroup = parent.ID
	return n
}

var (
	cinematography = domainNode(NodeCinematography, model.DomainCinematography, "Cinematography",
		"The choice of lens, frame, and camera placement for every shot.",
		"Translates the story's point of view into images.",
		"Pretty images that contradict what the scene is about.",
		"The slow push-ins of The Godfather's opening.")
	lighting = domainNode(NodeLighting, model.DomainLighting, "Lighting",
		"Shaping the quality, direction, and contrast of light.",
		"Guides the eye and sets the emotional temperature.",
		"Flat light that makes every scene feel the same.",
		"Low-key chiaroscuro in film noir.")
	color = domainNode(NodeColor, model.DomainColor, "Color",
		"The palette and grade that unify or separate parts of the film.",
		"Carries meaning across scenes without dialogue.",
		"A grade applied for style that fights the story's mood.",
		"The red-versus-teal split in Amélie.")
	sound = domainNode(NodeSound, model.DomainSound, "Sound",
		"Dialogue, effects, ambience, and music working as one track.",
		"Tells the audience what to feel and where to look.",
		"Wall-to-wall music that numbs every moment.",
		"The silence before the shark attack in Jaws.")
	editing = domainNode(NodeEditing, model.DomainEditing, "Editing",
		"Selecting and ordering shots to build meaning and rhythm.",
		"Controls what the audience knows and when.",
		"Cutting for coverage instead of for story.",
		"The bone-to-satellite cut in 2001: A Space Odyssey.")
	motion = domainNode(NodeMotion, model.DomainMotion, "Motion",
		"How the camera and elements move through the frame over time.",
		"Adds energy and direction to a static composition.",
		"Movement that draws attention to itself and away from the scene.",
		"The Steadicam walk into the Copacabana in Goodfellas.")
	design = domainNode(NodeDesign, model.DomainProductionDesign, "Production design",
		"The built world: sets, props, and costume.",
		"Makes the story's world legible at a glance.",
		"Spectacle sets that overwhelm the characters in them.",
		"The symmetrical hotel of The Grand Budapest Hotel.")
	performance = domainNode(NodePerformance, model.DomainPerformance, "Performance",
		"Actors' behavior, blocking, and delivery on camera.",
		"Makes internal change visible.",
		"Indicating emotion instead of playing intention.",
		"The unbroken confession in Manchester by the Sea.")
)

var seedNodes = []model.Node{
	story(NodePremise, "Premise",
		"The core dramatic question the story sets out to answer.",
		"Gives every scene a question to serve.",
		"Scenes drift because nothing is being tested.",
		"What if a shark terrorized a beach town on the Fourth of July?"),
	story(NodeStakes, "Stakes",
		"What the protagonist stands to lose.",
		"Turns events into consequences the audience cares about.",
		"Action without jeopardy feels weightless.",
		"Marty must reunite his parents or be erased."),
	story(NodeConflict, "Conflict",
		"Opposition between what a character wants and what stands in the way.",
		"Creates forward motion and choices.",
		"Arbitrary obstacles that the character never chooses against.",
		"Ripley against the xenomorph and the company."),
	story(NodeCharacterArc, "Character arc",
		"The internal change a character undergoes across the story.",
		"Connects plot events to emotional meaning.",
		"Change that happens off-screen or without cause.",
		"Michael Corleone's turn from outsider to don."),
	story(NodeTheme, "Theme",
		"The argument the story makes about how to live.",
		"Unifies choices across departments.",
		"Theme stated in dialogue instead of dramatized.",
		"Ambition corrodes family in There Will Be Blood."),
	story(NodeSubtext, "Subtext",
		"Meaning carried beneath what characters say outright.",
		"Lets the audience participate by reading between lines.",
		"On-the-nose dialogue that explains every feeling.",
		"The diner scene between McCauley and Hanna in Heat."),
	story(NodePointOfView, "Point of view",
		"Whose experience the audience is aligned with.",
		"Controls empathy and information.",
		"Wandering alignment that leaves the audience unsure whom to follow.",
		"Rear Window staying inside Jeff's apartment."),
	story(NodeTension, "Tension and release",
		"The alternation of rising anticipation and payoff.",
		"Keeps attention without exhausting it.",
		"Constant intensity that flattens into monotony.",
		"The bomb under the table in Hitchcock's example."),

	structure(NodeThreeAct, "Three-act structure",
		"Setup, confrontation, and resolution as a dramatic shape.",
		"Gives the audience an intuitive sense of progress.",
		"Hitting beats by page count instead of by story need.",
		"Star Wars acts split by leaving Tatooine and the Death Star escape."),
	structure(NodeIncitingEvent, "Inciting incident",
		"The event that disrupts the ordinary world and starts the story.",
		"Commits the story to its central question.",
		"A late inciting incident that leaves the first act idle.",
		"Elliott discovering E.T. in the shed."),
	structure(NodeMidpoint, "Midpoint",
		"A reversal that changes the protagonist's goal or understanding.",
		"Prevents the second act from sagging.",
		"A midpoint that only raises volume without changing direction.",
		"Clarice realizing Lecter is playing his own game."),
	structure(NodeClimax, "Climax",
		"The decisive confrontation where the central question is answered.",
		"Pays off the story's accumulated pressure.",
		"A climax decided by luck rather than by the character's choice.",
		"Luke switching off the targeting computer."),
	structure(NodeSetupPayoff, "Setup and payoff",
		"Planting information early that becomes meaningful later.",
		"Makes endings feel inevitable yet surprising.",
		"Payoffs without setups feel like cheats; setups without payoffs feel like clutter.",
		"The DeLorean's lightning clock tower flyer."),
	structure(NodeSceneTurn, "Scene turn",
		"The moment a scene's value flips from positive to negative or back.",
		"Ensures each scene changes something.",
		"Scenes that end where they began.",
		"The phone call that flips the wedding in The Godfather."),
	structure(NodePacing, "Pacing",
		"The perceived speed at which story information arrives.",
		"Matches the audience's experience to the story's urgency.",
		"Rushing past moments that need to land.",
		"The lingering long takes of Children of Men's ambush."),

	cinematography,
	child(cinematography, "cine-focal-length", "Focal length",
		"The lens's field of view, from wide to telephoto.",
		"Controls perspective and the relationship between subject and space.",
		"Wide lenses on close faces that distort sympathy into caricature.",
		"Telephoto compression in the heat-haze shots of Lawrence of Arabia."),
	child(cinematography, "cine-depth-of-field", "Depth of field",
		"The range of distance that appears acceptably sharp.",
		"Isolates or connects subjects within the frame.",
		"Shallow focus everywhere, hiding the environment the story needs.",
		"Deep focus staging in Citizen Kane."),
	child(cinematography, "cine-shot-size", "Shot size",
		"How much of the subject the frame includes.",
		"Sets emotional distance from the character.",
		"Close-ups used so often that they lose their power.",
		"Leone's extreme close-ups before a duel."),
	child(cinematography, "cine-camera-angle", "Camera angle",
		"The camera's height and tilt relative to the subject.",
		"Suggests power, vulnerability, or instability.",
		"Dutch angles as decoration rather than meaning.",
		"Low angles on Kane at the height of his power."),

	lighting,
	child(lighting, "light-three-point", "Three-point lighting",
		"Key, fill, and back light arranged around a subject.",
		"Gives a subject shape and separation from the background.",
		"Textbook setups applied without regard to the scene's motivation.",
		"Classic studio portraiture of the 1940s."),
	child(lighting, "light-key-ratio", "Key-to-fill ratio",
		"The contrast between the key light and the fill.",
		"Sets the mood from bright comedy to noir.",
		"High contrast in a scene that needs warmth.",
		"The 8:1 ratios of The Third Man."),
	child(lighting, "light-motivated", "Motivated light",
		"Light that appears to come from a source within the scene.",
		"Grounds stylization in the story world.",
		"Sources that contradict the geography of the set.",
		"Candlelit interiors of Barry Lyndon."),

	color,
	child(color, "color-temperature", "Color temperature",
		"The warmth or coolness of light, measured in kelvin.",
		"Associates places or emotions with a visual temperature.",
		"Mixed temperatures that read as mistakes.",
		"Warm Mexico against cool United States in Traffic."),
	child(color, "color-palette", "Color palette",
		"The limited set of hues a film commits to.",
		"Creates coherence and lets deviations carry meaning.",
		"A palette so broad that nothing stands out.",
		"The red coat in Schindler's List."),
	child(color, "color-contrast", "Color contrast",
		"Juxtaposition of complementary or clashing hues.",
		"Separates characters or worlds visually.",
		"Contrast that competes with the subject for attention.",
		"Orange and teal separation in Mad Max: Fury Road."),

	sound,
	child(sound, "sound-mix", "Sound mixing",
		"Balancing levels of dialogue, effects, ambience, and music.",
		"Keeps the story's priorities audible.",
		"Music masking the line the audience needs to hear.",
		"The dropouts during the Omaha Beach landing."),
	child(sound, "sound-diegetic", "Diegetic sound",
		"Sound that exists within the story world.",
		"Anchors the audience in physical space.",
		"Ambiguous sources that break the world's logic.",
		"The radio songs in American Graffiti."),
	child(sound, "sound-score", "Score",
		"Music composed to accompany the film.",
		"Shapes emotional response and binds sequences.",
		"Telling the audience how to feel before the scene earns it.",
		"The two-note shark motif in Jaws."),

	editing,
	child(editing, "edit-rhythm", "Editing rhythm",
		"The pattern of shot durations across a sequence.",
		"Creates momentum, unease, or calm.",
		"Uniform cutting that ignores the scene's beats.",
		"The accelerating cuts of the shower scene in Psycho."),
	child(editing, "edit-match-cut", "Match cut",
		"A cut linking two shots through shape, motion, or sound.",
		"Draws connections across time and place.",
		"Clever matches that imply connections the story doesn't support.",
		"The match to the sunrise in Lawrence of Arabia."),
	child(editing, "edit-cross-cut", "Cross-cutting",
		"Alternating between simultaneous lines of action.",
		"Builds suspense and thematic parallels.",
		"Cutting away at the wrong moment and deflating both lines.",
		"The baptism sequence in The Godfather."),

	motion,
	child(motion, "motion-easing", "Easing curves",
		"The acceleration profile of a movement.",
		"Makes motion feel weighted and intentional.",
		"Linear moves that feel mechanical and lifeless.",
		"The slow-in, slow-out of classic character animation."),
	child(motion, "motion-camera-move", "Camera movement",
		"Dolly, pan, crane, or handheld motion of the camera.",
		"Reveals space and follows attention.",
		"Movement without motivation that distracts from performance.",
		"The opening crane shot of Touch of Evil."),

	design,
	child(design, "design-set", "Set design",
		"The constructed environment characters inhabit.",
		"Expresses character through space.",
		"Generic spaces that say nothing about who lives there.",
		"The cramped apartment of The Apartment."),
	child(design, "design-costume", "Costume",
		"Clothing as an expression of character and change.",
		"Tracks arcs visually.",
		"Costumes that signal the wrong era or class.",
		"Vivian's wardrobe transformation in Vertigo."),

	performance,
	child(performance, "perf-blocking", "Blocking",
		"The planned movement and placement of actors in a scene.",
		"Externalizes relationships and power.",
		"Static blocking that traps actors in coverage.",
		"The table positions in the dinner scene of Ordinary People."),
	child(performance, "perf-eyeline", "Eyeline",
		"Where an actor looks relative to the lens.",
		"Establishes connection and geography.",
		"Crossed eyelines that confuse who is talking to whom.",
		"The direct-to-lens stare in The Silence of the Lambs."),
}
