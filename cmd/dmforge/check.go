package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmforge/dmforge/internal/pkg/clock"
	"github.com/dmforge/dmforge/internal/repositories/playerdata"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the player data directory",
	Long: `Load every character file and the party file, reporting any that fail to
parse or reference missing members. Nothing is modified.`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	dir := os.Getenv("DM_PLAYER_DATA_DIR")
	if dir == "" {
		dir = "./player_data"
	}

	repo, err := playerdata.NewFile(&playerdata.FileConfig{Dir: dir, Clock: clock.New()})
	if err != nil {
		return err
	}

	fmt.Printf("Checking %s...\n\n", dir)
	problems := 0

	listing, err := repo.ListCharacters(ctx, playerdata.ListCharactersInput{})
	if err != nil {
		return err
	}
	if len(listing.Filenames) == 0 {
		fmt.Println("No character files found. Run 'dmforge setup' to create the example party.")
	}

	for _, filename := range listing.Filenames {
		output, err := repo.LoadCharacter(ctx, playerdata.LoadCharacterInput{Filename: filename})
		if err != nil {
			problems++
			fmt.Printf("  FAIL  %s: %v\n", filename, err)
			continue
		}
		fmt.Printf("  ok    %s: %s\n", filename, output.Character.Summary())
	}

	exists, err := repo.PartyExists(ctx, playerdata.PartyExistsInput{})
	if err != nil {
		return err
	}
	if exists.Exists {
		output, err := repo.LoadParty(ctx, playerdata.LoadPartyInput{})
		if err != nil {
			problems++
			fmt.Printf("  FAIL  %s: %v\n", playerdata.DefaultPartyFilename, err)
		} else {
			fmt.Printf("  ok    %s: %s (%d members)\n",
				playerdata.DefaultPartyFilename, output.Party.Name, len(output.Party.Members))
		}
	} else {
		fmt.Printf("  --    %s: not present\n", playerdata.DefaultPartyFilename)
	}

	fmt.Println()
	if problems > 0 {
		return fmt.Errorf("%d file(s) failed validation", problems)
	}
	fmt.Println("All files valid.")
	return nil
}
