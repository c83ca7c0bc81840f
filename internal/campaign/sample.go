// Package campaign seeds a new game with the starter campaign: the Brave
// Companions party, the village of Riverside, and its opening quest hooks.
package campaign

import (
	"context"
	"log/slog"

	"github.com/dmforge/dmforge/internal/entities/dnd5e"
	"github.com/dmforge/dmforge/internal/errors"
	"github.com/dmforge/dmforge/internal/orchestrators/dungeonmaster"
	"github.com/dmforge/dmforge/internal/repositories/playerdata"
)

// StartingLocation is where new campaigns begin
const StartingLocation = "Riverside Tavern"

// OpeningAction is the scene-setting prompt sent to the DM when a session
// starts
const OpeningAction = "The party enters the Riverside Tavern for the first time, looking around and taking in the atmosphere. " +
	"They're new to the area and interested in learning about local opportunities for adventure."

// Intro returns the campaign introduction shown before the first scene
func Intro() string {
	return `Welcome to the village of Riverside! Your party of adventurers has just arrived at the Riverside Tavern,
a warm and welcoming establishment that serves as the heart of this small farming community.

The tavern is bustling with locals sharing stories over mugs of ale, and the smell of hearty stew fills the air.
Outside, you can hear the gentle sound of the river flowing past the village, and in the distance,
the dark outline of the Whispering Woods looms mysteriously on the horizon.

Your adventure begins here, where rumors of missing merchants, strange lights, and goblin raids
have the villagers worried. What will your party choose to investigate first?`
}

// CreateExampleParty writes the four starter characters and the party file
// into the player data directory. Returns the member filenames.
func CreateExampleParty(ctx context.Context, repo playerdata.Repository) ([]string, error) {
	party := &dnd5e.Party{
		Name:      "The Brave Companions",
		Formation: "Thorin takes point, Elaria and Marcus in the middle, Pip scouts ahead or brings up the rear",
		SharedEquipment: []string{
			"Rope (50 feet)",
			"Bedrolls (4)",
			"Rations (10 days)",
			"Torches (20)",
			"Tinderbox",
			"Crowbar",
			"Hammer",
			"Pitons (10)",
			"Healing Potions (2)",
		},
		PartyFunds: 150,
		Reputation: map[string]string{
			"Riverside Village": dnd5e.ReputationFriendly,
		},
		ActiveQuests:    []string{},
		CompletedQuests: []string{},
		Notes: "The party formed after meeting at the Riverside Tavern. They have proven themselves capable of " +
			"working together and are gaining a reputation as reliable problem-solvers.",
		Members: starterCharacters(),
	}

	output, err := repo.SaveParty(ctx, playerdata.SavePartyInput{Party: party})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create example party")
	}

	slog.InfoContext(ctx, "created example party",
		"party", party.Name,
		"members", len(output.MemberFiles))

	return output.MemberFiles, nil
}

// SeedWorld loads the starter locations, NPCs, and quests into the game
// store
func SeedWorld(ctx context.Context, svc dungeonmaster.Service) error {
	for _, location := range starterLocations() {
		if _, err := svc.AddLocation(ctx, &dungeonmaster.AddLocationInput{Location: location}); err != nil {
			return errors.Wrapf(err, "failed to seed location %s", location.Name)
		}
	}
	for _, npc := range starterNPCs() {
		if _, err := svc.AddNPC(ctx, &dungeonmaster.AddNPCInput{NPC: npc}); err != nil {
			return errors.Wrapf(err, "failed to seed npc %s", npc.Name)
		}
	}
	for _, quest := range starterQuests() {
		if _, err := svc.AddQuest(ctx, &dungeonmaster.AddQuestInput{Quest: quest}); err != nil {
			return errors.Wrapf(err, "failed to seed quest %s", quest.Title)
		}
	}
	return nil
}

func starterLocations() []*dnd5e.Location {
	return []*dnd5e.Location{
		{
			Name:        "Riverside Tavern",
			Description: "A cozy tavern by the river, filled with the warm glow of firelight and the sound of laughter.",
			Type:        dnd5e.LocationTypeBuilding,
			NotableFeatures: []string{
				"comfortable seating", "excellent ale", "local rumors", "traveling merchants",
			},
			Atmosphere: "welcoming and lively",
		},
		{
			Name:        "Whispering Woods",
			Description: "A dense forest where ancient trees tower overhead and mysterious sounds echo through the undergrowth.",
			Type:        dnd5e.LocationTypeWilderness,
			NotableFeatures: []string{
				"ancient ruins", "mysterious fog", "hidden paths", "magical creatures",
			},
			ConnectedLocations: []string{"Riverside Village", "Old Mine Entrance"},
			Atmosphere:         "mysterious and slightly ominous",
		},
		{
			Name:        "Riverside Village",
			Description: "A peaceful farming village built along the banks of a gentle river.",
			Type:        dnd5e.LocationTypeTown,
			NotableFeatures: []string{
				"market square", "stone bridge", "watermills", "village shrine",
			},
			ConnectedLocations: []string{"Whispering Woods", "Eastern Road"},
			Atmosphere:         "peaceful and rustic",
		},
	}
}

func starterNPCs() []*dnd5e.NPC {
	return []*dnd5e.NPC{
		{
			Name:                "Gareth the Barkeeper",
			Description:         "A burly dwarf with a braided beard and kind eyes, always ready with a story or a drink.",
			Personality:         "friendly, talkative, knows everyone's business",
			Location:            "Riverside Tavern",
			Role:                "tavern keeper and information broker",
			RelationshipToParty: dnd5e.ReputationFriendly,
			DialogueStyle:       "casual and warm",
		},
		{
			Name:                "Elara Moonwhisper",
			Description:         "A mysterious elven ranger with silver hair and piercing green eyes, often seen at the forest's edge.",
			Personality:         "cautious, wise, protective of nature",
			Location:            "Whispering Woods",
			Role:                "forest guardian and guide",
			RelationshipToParty: dnd5e.ReputationNeutral,
			DialogueStyle:       "formal and measured",
		},
		{
			Name:                "Mayor Aldric Brightwater",
			Description:         "A middle-aged human with graying hair and worry lines, clearly burdened by his responsibilities.",
			Personality:         "responsible, worried, seeks solutions to village problems",
			Location:            "Riverside Village",
			Role:                "village leader and quest giver",
			RelationshipToParty: "respectful",
			DialogueStyle:       "formal but earnest",
		},
	}
}

func starterQuests() []*dnd5e.Quest {
	return []*dnd5e.Quest{
		{
			Title:       "The Missing Merchant",
			Description: "A merchant caravan has failed to arrive in town, and their route passes through the Whispering Woods.",
			Giver:       "Gareth the Barkeeper",
			Objectives: []string{
				"Investigate the merchant's route", "Find signs of what happened", "Rescue survivors if any",
			},
			Rewards:    "50 gold pieces and the merchant's gratitude",
			Difficulty: "easy",
			Location:   "Whispering Woods",
		},
		{
			Title:       "Strange Lights in the Forest",
			Description: "Villagers have reported strange, dancing lights deep in the Whispering Woods at night.",
			Giver:       "Mayor Aldric Brightwater",
			Objectives: []string{
				"Investigate the source of the lights", "Determine if they pose a threat", "Report back to the mayor",
			},
			Rewards:    "75 gold pieces and village gratitude",
			Difficulty: "medium",
			Location:   "Whispering Woods",
		},
		{
			Title:       "Goblin Raids",
			Description: "Goblins have been raiding farms on the outskirts of the village, stealing livestock and crops.",
			Giver:       "Mayor Aldric Brightwater",
			Objectives: []string{
				"Find the goblin camp", "Stop the raids", "Recover stolen goods if possible",
			},
			Rewards:    "100 gold pieces and improved village reputation",
			Difficulty: "medium",
			Location:   "Eastern Road",
		},
	}
}

func starterCharacters() []*dnd5e.Character {
	return []*dnd5e.Character{
		{
			Name:       "Thorin Ironforge",
			Class:      "Fighter",
			Level:      2,
			Race:       "Dwarf",
			Background: "Soldier",
			Alignment:  "Lawful Good",
			Stats: dnd5e.AbilityScores{
				Strength: 16, Dexterity: 12, Constitution: 15,
				Intelligence: 10, Wisdom: 14, Charisma: 8,
			},
			Skills: []string{"Athletics", "Intimidation", "Perception", "Survival"},
			Equipment: []string{
				"Chain Mail", "Shield", "Warhammer", "Handaxe (2)",
				"Explorer's Pack", "Military Rank Insignia",
			},
			Backstory: "A veteran soldier who served in the King's Guard. Left after witnessing corruption, " +
				"now seeks honor as an adventurer.",
			PersonalityTraits: []string{
				"I face problems head-on with direct solutions",
				"I enjoy displays of strength and breaking things",
			},
			Ideals:     "Responsibility. I do what I must and obey just authority.",
			Bonds:      "My honor is my life. I would rather die than compromise my principles.",
			Flaws:      "I have little respect for anyone who is not a proven warrior.",
			HitPoints:  20,
			ArmorClass: 18,
		},
		{
			Name:       "Elaria Starweaver",
			Class:      "Wizard",
			Level:      2,
			Race:       "Elf",
			Background: "Sage",
			Alignment:  "Neutral Good",
			Stats: dnd5e.AbilityScores{
				Strength: 8, Dexterity: 14, Constitution: 13,
				Intelligence: 16, Wisdom: 12, Charisma: 11,
			},
			Skills: []string{"Arcana", "History", "Investigation", "Medicine"},
			Equipment: []string{
				"Spellbook", "Quarterstaff", "Dagger", "Component Pouch",
				"Scholar's Pack", "Ink and Quill", "Spell Scroll (Magic Missile)",
			},
			Backstory: "A young elf who spent decades studying ancient magic in great libraries. " +
				"Seeks practical experience to complement theoretical knowledge.",
			PersonalityTraits: []string{
				"I am awkward in social situations",
				"I speak without thinking, sometimes insulting others",
			},
			Ideals:     "Knowledge. The path to power and improvement is through understanding.",
			Bonds:      "The library where I learned is the most important place to me.",
			Flaws:      "I overlook obvious solutions in favor of complicated ones.",
			HitPoints:  14,
			ArmorClass: 12,
		},
		{
			Name:       "Pip Lightfingers",
			Class:      "Rogue",
			Level:      2,
			Race:       "Halfling",
			Background: "Criminal",
			Alignment:  "Chaotic Good",
			Stats: dnd5e.AbilityScores{
				Strength: 10, Dexterity: 16, Constitution: 14,
				Intelligence: 12, Wisdom: 13, Charisma: 15,
			},
			Skills: []string{"Stealth", "Sleight of Hand", "Investigation", "Deception", "Insight", "Perception"},
			Equipment: []string{
				"Leather Armor", "Shortsword", "Shortbow", "Thieves' Tools",
				"Burglar's Pack", "Crowbar", "Dark Cloak",
			},
			Backstory: "A former street thief who turned to adventuring after helping the wrong person " +
				"escape from the law.",
			PersonalityTraits: []string{
				"I always have a plan for what to do when things go wrong",
				"I am incredibly slow to trust, but those who prove themselves earn my loyalty",
			},
			Ideals:     "Redemption. Everyone deserves a second chance.",
			Bonds:      "I'm trying to pay back a debt I owe to my generous benefactor.",
			Flaws:      "When I see something valuable, I can't think about anything but how to steal it.",
			HitPoints:  16,
			ArmorClass: 13,
		},
		{
			Name:       "Brother Marcus",
			Class:      "Cleric",
			Level:      2,
			Race:       "Human",
			Background: "Acolyte",
			Alignment:  "Lawful Good",
			Stats: dnd5e.AbilityScores{
				Strength: 14, Dexterity: 10, Constitution: 15,
				Intelligence: 12, Wisdom: 16, Charisma: 13,
			},
			Skills: []string{"Medicine", "Religion", "Insight", "Persuasion"},
			Equipment: []string{
				"Chain Shirt", "Shield", "Mace", "Light Crossbow",
				"Priest's Pack", "Holy Symbol", "Prayer Book",
			},
			Backstory: "A devoted priest who left his temple to spread healing and hope in the wider world.",
			PersonalityTraits: []string{
				"I see omens in every event and action",
				"I quote sacred texts in almost every situation",
			},
			Ideals:     "Faith. I trust that my deity will guide my actions.",
			Bonds:      "I would die to recover an ancient relic of my faith that was lost long ago.",
			Flaws:      "I judge others harshly, and myself even more severely.",
			HitPoints:  18,
			ArmorClass: 16,
		},
	}
}
