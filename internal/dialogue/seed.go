package dialogue

// SeedStore returns the built-in innkeeper conversation, used when the
// server runs without a content directory.
func SeedStore() Store {
	return Store{
		// Opening - the innkeeper greets the player
		"innkeeper.greet": {
			Speaker: "MARTA THE INNKEEPER",
			Text:    "Welcome to the Hearthlight, traveller. Road's been cruel to you, by the look of it.\n\nWhat'll it be?",
			Options: []Option{
				{Label: "A room for the night", Next: "innkeeper.room"},
				{Label: "Heard any rumours?", Next: "innkeeper.rumours"},
				{Label: "Nothing, thanks"},
			},
		},

		"innkeeper.room": {
			Speaker: "MARTA THE INNKEEPER",
			Text:    "Five silver, and the bed's dry. Mostly.",
			Options: []Option{
				{Label: "Pay the five silver", Next: "innkeeper.room-paid"},
				{Label: "Ask about something else", Next: "innkeeper.greet"},
			},
		},

		"innkeeper.room-paid": {
			Speaker: "MARTA THE INNKEEPER",
			Text:    "Top of the stairs, second door. Breakfast is at dawn, and I don't keep it warm.",
			Options: []Option{
				{Label: "Goodnight"},
			},
		},

		"innkeeper.rumours": {
			Speaker: "MARTA THE INNKEEPER",
			Text:    "Lights out past the old mill again. The miller's boy swears he saw a figure in the water.\n\n[She lowers her voice.]\n\nThe watch won't go near it.",
			Options: []Option{
				{Label: "I'll take a look", Next: "innkeeper.mill-accept"},
				{Label: "Ask about something else", Next: "innkeeper.greet"},
				{Label: "Not my concern"},
			},
		},

		"innkeeper.mill-accept": {
			Speaker: "MARTA THE INNKEEPER",
			Text:    "Brave or daft, I can never tell which. Take the east road and mind the bridge.",
			Options: []Option{},
		},
	}
}
