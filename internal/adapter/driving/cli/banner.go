package cli

import (
	"fmt"

	"github.com/cloudrange/aws-inventory-go/pkg/console"
	"github.com/cloudrange/aws-inventory-go/pkg/version"
)

// displayWelcomeBanner prints the welcome banner with version information.
func displayWelcomeBanner() {
	banner := `
        ___ _       ______    ____                      __
       /   | |     / / __/   /  _/___ _   _____  ____  / /_____  _______  __
      / /| | | /| / /\ \     / // __ \ | / / _ \/ __ \/ __/ __ \/ ___/ / / /
     / ___ | |/ |/ /___/ / _/ // / / / |/ /  __/ / / / /_/ /_/ / /  / /_/ /
    /_/  |_|__/|__//____/ /___/_/ /_/|___/\___/_/ /_/\__/\____/_/   \__, /
                                                                   /____/
	`
	fmt.Println(console.BrightCyan(banner))
	fmt.Println(console.BrightBlue(fmt.Sprintf("AWS Inventory CLI (v%s)", version.FormatVersion())))
}
