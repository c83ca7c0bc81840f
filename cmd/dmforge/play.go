package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dmforge/dmforge/internal/campaign"
	"github.com/dmforge/dmforge/internal/errors"
	"github.com/dmforge/dmforge/internal/orchestrators/dungeonmaster"
	"github.com/dmforge/dmforge/internal/repositories/gamestore"
	"github.com/dmforge/dmforge/internal/repositories/playerdata"
)

var partyFile string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start an interactive game session",
	Long: `Start an interactive session with the AI Dungeon Master. The party is
loaded from the player data directory; when none exists, the example party
and starter campaign are created first.`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&partyFile, "party", "", "party file to load (default party.json)")
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n\nGame interrupted. Thanks for playing!")
		cancel()
	}()

	d, err := buildDeps()
	if err != nil {
		return err
	}

	if err := startCampaign(ctx, d); err != nil {
		return err
	}

	printWelcome()

	summary, err := d.service.PartySummary(ctx, &dungeonmaster.PartySummaryInput{})
	if err != nil {
		return err
	}
	fmt.Println("PARTY STATUS:")
	fmt.Println(summary.Summary)
	fmt.Println()

	fmt.Println("CAMPAIGN INTRODUCTION:")
	fmt.Println(campaign.Intro())
	fmt.Println()

	fmt.Println("THE STORY BEGINS...")
	opening, err := d.service.GenerateNarration(ctx, &dungeonmaster.GenerateNarrationInput{
		PlayerInput: campaign.OpeningAction,
	})
	if err != nil {
		return errors.Wrap(err, "failed to open the session")
	}
	fmt.Printf("DM: %s\n\n", opening.Narration)

	return gameLoop(ctx, d)
}

// startCampaign loads the party (creating the example party on first run)
// and seeds the starter world
func startCampaign(ctx context.Context, d *deps) error {
	exists, err := d.playerData.PartyExists(ctx, playerdata.PartyExistsInput{Filename: partyFile})
	if err != nil {
		return err
	}
	if !exists.Exists && partyFile == "" {
		fmt.Println("No existing party found. Creating example party...")
		if _, err := campaign.CreateExampleParty(ctx, d.playerData); err != nil {
			return err
		}
	}

	loaded, err := d.service.LoadParty(ctx, &dungeonmaster.LoadPartyInput{Filename: partyFile})
	if err != nil {
		return errors.Wrap(err, "failed to load party")
	}
	fmt.Printf("Loaded party: %s with %d members\n", loaded.Party.Name, len(loaded.Party.Members))
	for _, member := range loaded.Party.Members {
		fmt.Printf("  - %s (Level %d %s %s)\n", member.Name, member.Level, member.Race, member.Class)
	}

	if err := campaign.SeedWorld(ctx, d.service); err != nil {
		return err
	}

	if _, err := d.service.SetLocation(ctx, &dungeonmaster.SetLocationInput{
		LocationName: campaign.StartingLocation,
	}); err != nil {
		return err
	}

	fmt.Println("\nCampaign initialized!")
	fmt.Printf("Current location: %s\n\n", campaign.StartingLocation)
	return nil
}

func gameLoop(ctx context.Context, d *deps) error {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		if ctx.Err() != nil {
			return nil
		}

		fmt.Print("Player Action: ")
		if !scanner.Scan() {
			return scanner.Err()
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "quit", "exit", "q":
			fmt.Println("\nThanks for playing! May your dice always roll high!")
			return nil
		case "party":
			printPartyInfo(ctx, d)
			continue
		case "location":
			printLocationInfo(ctx, d)
			continue
		case "context":
			printContextInfo(ctx, d)
			continue
		case "help":
			printHelp()
			continue
		}

		fmt.Println("\nDM Response:")
		output, err := d.service.GenerateNarration(ctx, &dungeonmaster.GenerateNarrationInput{PlayerInput: input})
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Printf("\nAn error occurred: %v\n", err)
			fmt.Println("The DM needs a moment to collect their thoughts...")
			if errors.IsUnavailable(err) {
				fmt.Println("This appears to be a connection issue. Please check your API key and internet connection.")
			}
			fmt.Println()
			continue
		}
		fmt.Printf("DM: %s\n\n", output.Narration)
	}
}

func printWelcome() {
	line := strings.Repeat("=", 60)
	fmt.Println(line)
	fmt.Println("Welcome to the AI Dungeon Master!")
	fmt.Println(line)
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  'quit', 'exit', or 'q' - Exit the game")
	fmt.Println("  'party' - Show party information")
	fmt.Println("  'location' - Show current location")
	fmt.Println("  'context' - Show current game context")
	fmt.Println("  'help' - Show this help message")
	fmt.Println("  Any other input - Player action for the DM to respond to")
	fmt.Println()
}

func printHelp() {
	line := strings.Repeat("=", 40)
	fmt.Println("\n" + line)
	fmt.Println("HELP - How to Play")
	fmt.Println(line)
	fmt.Println()
	fmt.Println("Basic Commands:")
	fmt.Println("  party     - View detailed party information")
	fmt.Println("  location  - See where you currently are")
	fmt.Println("  context   - Get current game state summary")
	fmt.Println("  help      - Show this help message")
	fmt.Println("  quit      - Exit the game")
	fmt.Println()
	fmt.Println("Playing the Game:")
	fmt.Println("  - Type any action or dialogue for your party")
	fmt.Println("  - The DM will respond and advance the story")
	fmt.Println("  - Be descriptive! 'I search the room' vs 'I carefully examine the ancient bookshelf'")
	fmt.Println("  - The DM knows your characters' abilities and will ask for dice rolls when needed")
	fmt.Println()
	fmt.Println("Example Actions:")
	fmt.Println("  'We approach the barkeeper and ask about local rumors'")
	fmt.Println("  'Thorin examines the tracks while Pip searches for traps'")
	fmt.Println("  'Elaria casts Detect Magic to scan the area'")
	fmt.Println("  'We rest for the night and discuss our plans'")
	fmt.Println()
}

func printPartyInfo(ctx context.Context, d *deps) {
	line := strings.Repeat("=", 40)
	fmt.Println("\n" + line)
	fmt.Println("PARTY INFORMATION")
	fmt.Println(line)
	output, err := d.service.PartySummary(ctx, &dungeonmaster.PartySummaryInput{})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Println(output.Summary)
	fmt.Println()
}

func printLocationInfo(ctx context.Context, d *deps) {
	output, err := d.service.ContextSummary(ctx, &dungeonmaster.ContextSummaryInput{})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	for _, lineText := range strings.Split(output.Summary, "\n") {
		if strings.HasPrefix(lineText, "Current Location: ") {
			fmt.Printf("\n%s\n", lineText)
			name := strings.TrimPrefix(lineText, "Current Location: ")
			found, err := d.gameStore.FindLocationByName(ctx, gamestore.FindLocationByNameInput{Name: name})
			if err == nil {
				fmt.Printf("Description: %s\n", found.Location.Description)
				fmt.Printf("Type: %s\n", found.Location.Type)
				fmt.Printf("Atmosphere: %s\n", found.Location.Atmosphere)
			}
			fmt.Println()
			return
		}
	}
	fmt.Println("\nNo current location set.")
	fmt.Println()
}

func printContextInfo(ctx context.Context, d *deps) {
	line := strings.Repeat("=", 40)
	fmt.Println("\n" + line)
	fmt.Println("CURRENT GAME CONTEXT")
	fmt.Println(line)
	output, err := d.service.ContextSummary(ctx, &dungeonmaster.ContextSummaryInput{})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Println(output.Summary)
	fmt.Println()
}
