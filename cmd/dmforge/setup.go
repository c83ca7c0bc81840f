package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmforge/dmforge/internal/campaign"
	"github.com/dmforge/dmforge/internal/pkg/clock"
	"github.com/dmforge/dmforge/internal/repositories/playerdata"
)

var setupForce bool

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create the example party and character files",
	Long: `Write the example party and its four starter characters into the player
data directory. Edit the JSON files afterward, or use them as templates for
your own party.`,
	RunE: runSetup,
}

func init() {
	setupCmd.Flags().BoolVar(&setupForce, "force", false, "overwrite an existing party")
}

func runSetup(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// Setup only needs the data directory, not an API key, so the full
	// config load isn't used here
	dir := os.Getenv("DM_PLAYER_DATA_DIR")
	if dir == "" {
		dir = "./player_data"
	}

	repo, err := playerdata.NewFile(&playerdata.FileConfig{Dir: dir, Clock: clock.New()})
	if err != nil {
		return err
	}

	exists, err := repo.PartyExists(ctx, playerdata.PartyExistsInput{})
	if err != nil {
		return err
	}
	if exists.Exists && !setupForce {
		fmt.Printf("A party already exists in %s. Use --force to overwrite it.\n", dir)
		return nil
	}

	fmt.Println("Creating example party and characters...")
	files, err := campaign.CreateExampleParty(ctx, repo)
	if err != nil {
		return err
	}

	fmt.Println("Created example party and characters:")
	fmt.Println("  - Party file: party.json")
	for _, filename := range files {
		fmt.Printf("  - Character file: %s\n", filename)
	}
	fmt.Printf("\nFiles written to %s. Run 'dmforge play' to start a session.\n", dir)
	return nil
}
