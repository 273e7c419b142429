package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/derekspelledcorrectly/claude-profile-manager/internal/credential"
	"github.com/derekspelledcorrectly/claude-profile-manager/internal/utils"
)

// CheckResult represents the result of a diagnostic check.
type CheckResult struct {
	Name    string      `json:"name"`
	Status  CheckStatus `json:"status"`
	Message string      `json:"message"`
	Fix     string      `json:"fix,omitempty"`
}

// CheckStatus represents the status of a diagnostic check.
type CheckStatus int

const (
	// CheckOK indicates the check passed.
	CheckOK CheckStatus = iota
	// CheckWarning indicates a non-critical issue.
	CheckWarning
	// CheckError indicates a critical failure.
	CheckError
	// CheckSkipped indicates the check was skipped.
	CheckSkipped
)

// String returns the status name.
func (s CheckStatus) String() string {
	switch s {
	case CheckOK:
		return "OK"
	case CheckWarning:
		return "WARN"
	case CheckError:
		return "ERROR"
	case CheckSkipped:
		return "SKIP"
	default:
		return "UNKNOWN"
	}
}

// Icon returns the status icon for display.
func (s CheckStatus) Icon() string {
	switch s {
	case CheckOK:
		return "[OK]"
	case CheckWarning:
		return "[!!]"
	case CheckError:
		return "[XX]"
	case CheckSkipped:
		return "[--]"
	default:
		return "[??]"
	}
}

// MarshalJSON implements json.Marshaler.
func (s CheckStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// DoctorOutput represents the doctor command output for JSON.
type DoctorOutput struct {
	Checks      []CheckResult `json:"checks"`
	HasErrors   bool          `json:"has_errors"`
	HasWarnings bool          `json:"has_warnings"`
}

// newDoctorCmd creates the doctor command.
func (cli *CLI) newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose common issues",
		Long: `Run diagnostic checks to identify and troubleshoot common issues.

The doctor command checks:
  - Profile directory existence and permissions
  - Keyring availability
  - Live Claude Code credential state
  - Current-profile pointer validity
  - Dangling aliases
  - Stored secrets without a profile record`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ParseOutputFormat(cli.outputFlag)
			if err != nil {
				return err
			}
			return cli.runDoctor(format)
		},
	}
}

// runDoctor executes all diagnostic checks.
func (cli *CLI) runDoctor(format OutputFormat) error {
	checks := []CheckResult{
		cli.checkProfileDir(),
		cli.checkKeyring(),
		cli.checkLiveCredentials(),
		cli.checkCurrentPointer(),
		cli.checkAliases(),
		cli.checkOrphanedSecrets(),
	}

	result := DoctorOutput{Checks: checks}
	for _, c := range checks {
		switch c.Status {
		case CheckError:
			result.HasErrors = true
		case CheckWarning:
			result.HasWarnings = true
		}
	}

	output := NewOutputWriter(format)
	err := output.Write(result, func() {
		for _, c := range checks {
			fmt.Printf("%s %s: %s\n", c.Status.Icon(), c.Name, c.Message)
			if c.Fix != "" && (cli.verboseFlag || c.Status != CheckOK) {
				fmt.Printf("     fix: %s\n", c.Fix)
			}
		}
	})
	if err != nil {
		return err
	}

	if result.HasErrors {
		return fmt.Errorf("doctor found problems")
	}
	return nil
}

func (cli *CLI) checkProfileDir() CheckResult {
	check := CheckResult{Name: "profile directory"}

	info, err := os.Stat(cli.dir)
	if err != nil {
		if os.IsNotExist(err) {
			check.Status = CheckWarning
			check.Message = fmt.Sprintf("%s does not exist yet", cli.dir)
			check.Fix = "it is created on the first 'ccprofile save'"
			return check
		}
		check.Status = CheckError
		check.Message = fmt.Sprintf("cannot access %s", cli.dir)
		return check
	}

	if !info.IsDir() {
		check.Status = CheckError
		check.Message = fmt.Sprintf("%s is not a directory", cli.dir)
		return check
	}

	if runtime.GOOS != "windows" && info.Mode().Perm()&0077 != 0 {
		check.Status = CheckWarning
		check.Message = fmt.Sprintf("%s is readable by other users (mode %04o)", cli.dir, info.Mode().Perm())
		check.Fix = fmt.Sprintf("chmod 700 %s", cli.dir)
		return check
	}

	check.Status = CheckOK
	check.Message = cli.dir
	return check
}

func (cli *CLI) checkKeyring() CheckResult {
	check := CheckResult{Name: "keyring"}

	if err := cli.Keyring.IsAvailable(); err != nil {
		check.Status = CheckError
		check.Message = err.Error()
		check.Fix = "install and start a secret service provider for your platform"
		return check
	}

	check.Status = CheckOK
	check.Message = "secure keyring is available"
	return check
}

func (cli *CLI) checkLiveCredentials() CheckResult {
	check := CheckResult{Name: "live credentials"}

	kind, err := cli.Manager.DetectLive()
	if err != nil {
		check.Status = CheckError
		check.Message = err.Error()
		return check
	}

	switch kind {
	case credential.AuthKindNone:
		check.Status = CheckWarning
		check.Message = "Claude Code holds no credentials"
		check.Fix = "log in with Claude Code, or 'ccprofile use <name>'"
	case credential.AuthKindAPIKey:
		check.Status = CheckOK
		check.Message = "Claude Code holds a live API key"
		if secret, err := cli.Keyring.Get(credential.LiveAccount(), credential.ServiceLiveAPIKey); err == nil {
			check.Message += " (" + utils.Mask(secret) + ")"
		}
	default:
		check.Status = CheckOK
		check.Message = fmt.Sprintf("Claude Code holds a live %s credential", kind.DisplayName())
	}
	return check
}

func (cli *CLI) checkCurrentPointer() CheckResult {
	check := CheckResult{Name: "current profile"}

	result, err := cli.Manager.Current()
	if err != nil {
		check.Status = CheckSkipped
		check.Message = "no current profile set"
		return check
	}

	if !cli.Manager.Metadata().Exists(result.Name) {
		check.Status = CheckWarning
		check.Message = fmt.Sprintf("points at %q, which has no record", result.Name)
		check.Fix = "switch to an existing profile"
		return check
	}

	check.Status = CheckOK
	check.Message = result.Name
	return check
}

func (cli *CLI) checkAliases() CheckResult {
	check := CheckResult{Name: "aliases"}

	table, err := cli.Manager.Aliases()
	if err != nil {
		check.Status = CheckError
		check.Message = err.Error()
		return check
	}

	var dangling []string
	for name, target := range table {
		if !cli.Manager.Metadata().Exists(target) {
			dangling = append(dangling, name)
		}
	}

	if len(dangling) > 0 {
		check.Status = CheckWarning
		check.Message = fmt.Sprintf("%d alias(es) point at deleted profiles", len(dangling))
		check.Fix = "remove them with 'ccprofile alias remove <alias>'"
		return check
	}

	check.Status = CheckOK
	check.Message = fmt.Sprintf("%d alias(es) defined", len(table))
	return check
}

func (cli *CLI) checkOrphanedSecrets() CheckResult {
	check := CheckResult{Name: "stored secrets"}

	accounts, err := cli.Keyring.ListAccounts(credential.ServiceBackup)
	if err != nil {
		check.Status = CheckError
		check.Message = err.Error()
		return check
	}
	if accounts == nil {
		// The OS keyring cannot enumerate its entries.
		check.Status = CheckSkipped
		check.Message = "keyring backend cannot enumerate stored secrets"
		return check
	}

	var orphaned []string
	for _, account := range accounts {
		if !cli.Manager.Metadata().Exists(account) {
			orphaned = append(orphaned, account)
		}
	}

	if len(orphaned) > 0 {
		check.Status = CheckWarning
		check.Message = fmt.Sprintf("%d stored secret(s) have no profile record", len(orphaned))
		check.Fix = "re-save the profile, or remove the secret from the keyring manually"
		return check
	}

	check.Status = CheckOK
	check.Message = fmt.Sprintf("%d stored secret(s), all with records", len(accounts))
	return check
}
