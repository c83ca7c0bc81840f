package dungeonmaster

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dmforge/dmforge/internal/entities/dnd5e"
	"github.com/dmforge/dmforge/internal/repositories/gamestore"
)

const systemPromptTemplate = `You are an expert Dungeon Master for a Dungeons & Dragons campaign. Your role is to:

1. Generate engaging, immersive narrative descriptions
2. Control NPCs and their dialogue
3. Present quest opportunities and manage story progression
4. Respond to player actions with appropriate consequences
5. Maintain consistency with the established world and characters

IMPORTANT GUIDELINES:
- Always stay in character as the DM
- Be descriptive but concise
- Ask for dice rolls when appropriate
- Make the story engaging and interactive
- Use the provided context about NPCs, quests, and locations to maintain consistency
- Never break the fourth wall or mention game mechanics explicitly to players
- Consider the party's abilities, equipment, and personalities when crafting scenarios
- Reference character backstories and motivations when relevant

Current Game Context:
%s`

// relevantContext holds the world elements matched against the current
// situation, split by type
type relevantContext struct {
	npcs      []*dnd5e.NPC
	quests    []*dnd5e.Quest
	locations []*dnd5e.Location
}

func splitResults(results []*gamestore.SearchResult) relevantContext {
	var rc relevantContext
	for _, result := range results {
		switch result.Type {
		case gamestore.ElementTypeNPC:
			rc.npcs = append(rc.npcs, result.NPC)
		case gamestore.ElementTypeQuest:
			rc.quests = append(rc.quests, result.Quest)
		case gamestore.ElementTypeLocation:
			rc.locations = append(rc.locations, result.Location)
		}
	}
	return rc
}

// formatContext renders the game context block for the system prompt:
// matched world elements, the current location, then the party sheet.
func formatContext(rc relevantContext, currentLocation string, party *dnd5e.Party) string {
	var lines []string

	if len(rc.locations) > 0 {
		lines = append(lines, "RELEVANT LOCATIONS:")
		for _, loc := range rc.locations {
			lines = append(lines, fmt.Sprintf("- %s: %s", loc.Name, loc.Description))
			if loc.Atmosphere != "" {
				lines = append(lines, fmt.Sprintf("  Atmosphere: %s", loc.Atmosphere))
			}
		}
	}

	if len(rc.npcs) > 0 {
		lines = append(lines, "", "RELEVANT NPCs:")
		for _, npc := range rc.npcs {
			lines = append(lines,
				fmt.Sprintf("- %s (%s): %s", npc.Name, npc.Role, npc.Description),
				fmt.Sprintf("  Personality: %s", npc.Personality),
				fmt.Sprintf("  Dialogue Style: %s", npc.DialogueStyle),
				fmt.Sprintf("  Relationship to Party: %s", npc.RelationshipToParty))
		}
	}

	if len(rc.quests) > 0 {
		lines = append(lines, "", "RELEVANT QUESTS:")
		for _, quest := range rc.quests {
			lines = append(lines, fmt.Sprintf("- %s (Status: %s): %s", quest.Title, quest.Status, quest.Description))
			if len(quest.Objectives) > 0 {
				lines = append(lines, fmt.Sprintf("  Objectives: %s", strings.Join(quest.Objectives, ", ")))
			}
			lines = append(lines, fmt.Sprintf("  Difficulty: %s", quest.Difficulty))
		}
	}

	if currentLocation != "" {
		lines = append(lines, "", fmt.Sprintf("CURRENT LOCATION: %s", currentLocation))
	}

	if party != nil {
		lines = append(lines, "", "PARTY INFORMATION:")
		lines = append(lines,
			fmt.Sprintf("Party Name: %s", party.Name),
			fmt.Sprintf("Average Level: %.1f", party.AverageLevel()),
			fmt.Sprintf("Members (%d):", len(party.Members)))

		for _, member := range party.Members {
			lines = append(lines, formatMember(member)...)
		}

		if len(party.ActiveQuests) > 0 {
			lines = append(lines, "", fmt.Sprintf("Active Quests: %s", strings.Join(party.ActiveQuests, ", ")))
		}

		lines = append(lines,
			fmt.Sprintf("Party Funds: %d gold", party.PartyFunds),
			fmt.Sprintf("Formation: %s", party.Formation))

		if len(party.Reputation) > 0 {
			lines = append(lines, "Reputation:")
			factions := make([]string, 0, len(party.Reputation))
			for faction := range party.Reputation {
				factions = append(factions, faction)
			}
			sort.Strings(factions)
			for _, faction := range factions {
				lines = append(lines, fmt.Sprintf("  - %s: %s", faction, party.Reputation[faction]))
			}
		}
	}

	if len(lines) == 0 {
		return "No specific context available."
	}
	return strings.Join(lines, "\n")
}

// formatMember renders one member's sheet: vitals, stats with modifiers,
// then trimmed personality and equipment so the prompt stays lean
func formatMember(member *dnd5e.Character) []string {
	lines := []string{
		fmt.Sprintf("  - %s (Level %d %s %s)", member.Name, member.Level, member.Race, member.Class),
		fmt.Sprintf("    AC: %d, HP: %d", member.ArmorClass, member.HitPoints),
		fmt.Sprintf("    Background: %s", member.Background),
	}

	stats := make([]string, 0, len(dnd5e.StatNames))
	for _, stat := range dnd5e.StatNames {
		score := member.Stats.Score(stat)
		stats = append(stats, fmt.Sprintf("%s %d(%+d)", stat, score, member.StatModifier(stat)))
	}
	lines = append(lines, fmt.Sprintf("    Stats: %s", strings.Join(stats, ", ")))

	if len(member.PersonalityTraits) > 0 {
		traits := member.PersonalityTraits
		if len(traits) > 2 {
			traits = traits[:2]
		}
		lines = append(lines, fmt.Sprintf("    Personality: %s", strings.Join(traits, ", ")))
	}

	if len(member.Equipment) > 0 {
		equipment := member.Equipment
		if len(equipment) > 3 {
			equipment = equipment[:3]
		}
		lines = append(lines, fmt.Sprintf("    Key Equipment: %s", strings.Join(equipment, ", ")))
	}

	return lines
}
