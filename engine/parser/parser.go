// Package parser converts command strings into Intent structs.
// Intentionally dumb: no NLP, just alias tables and filler stripping.
package parser

import (
	"strings"

	"github.com/mveld/grimvale/types"
)

// Directions usable as bare commands ("north" means "go north").
var directionNames = map[string]string{
	"north": "north", "south": "south", "east": "east", "west": "west",
	"n": "north", "s": "south", "e": "east", "w": "west",
	"up": "up", "down": "down", "u": "up", "d": "down",
}

var verbAliases = map[string]string{
	// Look / Examine
	"l":       "look",
	"x":       "examine",
	"inspect": "examine",
	"check":   "examine",
	"search":  "examine",
	"study":   "examine",

	// Movement
	"walk":   "go",
	"move":   "go",
	"head":   "go",
	"travel": "go",

	// Combat
	"fight":  "attack",
	"hit":    "attack",
	"kill":   "attack",
	"strike": "attack",
	"cast":   "skill",
	"block":  "defend",
	"guard":  "defend",
	"scan":   "analyze",
	"run":    "flee",
	"escape": "flee",

	// Items
	"drink":   "use",
	"consume": "use",
	"wear":    "equip",
	"wield":   "equip",
	"remove":  "unequip",

	// People and trade
	"speak":    "talk",
	"chat":     "talk",
	"ask":      "talk",
	"browse":   "shop",
	"wares":    "shop",
	"purchase": "buy",

	// Logs and state
	"inv":     "inventory",
	"i":       "inventory",
	"stats":   "status",
	"journal": "quests",
	"sleep":   "rest",
	"z":       "wait",
}

// Filler words dropped between the verb and its arguments.
var fillerWords = map[string]bool{
	"the": true, "a": true, "an": true,
	"to": true, "at": true, "with": true, "on": true, "about": true,
	"from": true,
}

// Parse converts an input line into an Intent. The second argument
// after a filler word ("sell sword to merchant") lands in Arg.
func Parse(input string) types.Intent {
	raw := strings.TrimSpace(input)
	intent := types.Intent{Raw: raw}

	fields := strings.Fields(strings.ToLower(raw))
	if len(fields) == 0 {
		return intent
	}

	verb := fields[0]
	if canonical, ok := verbAliases[verb]; ok {
		verb = canonical
	}

	// A bare direction is a movement command.
	if dir, ok := directionNames[verb]; ok {
		intent.Verb = "go"
		intent.Object = dir
		return intent
	}

	intent.Verb = verb
	rest := fields[1:]

	// "go n" still expands the direction shorthand.
	if verb == "go" && len(rest) > 0 {
		if dir, ok := directionNames[rest[0]]; ok {
			intent.Object = dir
			return intent
		}
	}

	// Split remaining words into object and arg at the first filler
	// word that follows at least one object word.
	var object, arg []string
	inArg := false
	for i, word := range rest {
		if fillerWords[word] {
			if i == 0 {
				continue
			}
			if len(object) > 0 && !inArg {
				inArg = true
				continue
			}
			continue
		}
		if inArg {
			arg = append(arg, word)
		} else {
			object = append(object, word)
		}
	}
	intent.Object = strings.Join(object, " ")
	intent.Arg = strings.Join(arg, " ")
	return intent
}
