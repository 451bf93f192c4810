package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"netbot/internal/config"
	"netbot/internal/device"
	"netbot/internal/provider"
	"netbot/internal/tool"

	"github.com/spf13/cobra"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Run diagnostic checks on your netbot installation",
		Long: `Verifies that netbot's configuration, device inventory, SSH
reachability, and LLM providers are correctly set up. Reports pass/fail
for each check.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := resolveConfigPath()
			fmt.Printf("netbot doctor v%s\n", version)
			fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

			passed := 0
			failed := 0
			warned := 0

			// 1. Config file exists
			if _, err := os.Stat(cfgPath); err != nil {
				printFail("Config file", fmt.Sprintf("not found at %s", cfgPath))
				failed++
				fmt.Printf("\nRun 'netbot init' to create a default configuration.\n")
				return nil
			}
			printPass("Config file", cfgPath)
			passed++

			// 2. Config loads and validates
			cfg, err := config.Load(cfgPath)
			if err != nil {
				printFail("Config validation", err.Error())
				fmt.Printf("\nResults: %d passed, %d failed\n", passed, failed+1)
				return nil
			}
			printPass("Config validation", "valid")
			passed++

			// 3. Device inventory resolves
			params, err := config.LoadDevice(cfg.Inventory.Path, logger)
			if err != nil {
				printFail("Device inventory", err.Error())
				failed++
			} else {
				printPass("Device inventory", fmt.Sprintf("%s at %s", params.DeviceType, params.Host))
				passed++

				// 4. TCP reachability, cheaper than a full SSH login
				if err := checkTCP(params.Addr()); err != nil {
					printWarn("Device reachability", fmt.Sprintf("%s: %v", params.Addr(), err))
					warned++
				} else {
					printPass("Device reachability", params.Addr())
					passed++

					// 5. Full SSH login and a version read
					if version, err := checkSSH(params); err != nil {
						printFail("Device SSH", err.Error())
						failed++
					} else {
						printPass("Device SSH", "software version "+version)
						passed++
					}
				}
			}

			// 6. Providers
			providerCount := 0
			factory := provider.NewFactory(cfg, logger)
			for name, p := range cfg.Providers {
				if !p.Enabled {
					continue
				}
				providerCount++
				prov, err := factory.Get(name)
				if err != nil {
					printFail("Provider: "+name, err.Error())
					failed++
					continue
				}
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				err = prov.Healthy(ctx)
				cancel()
				if err != nil {
					printWarn("Provider: "+name, fmt.Sprintf("unreachable: %v", err))
					warned++
				} else {
					printPass("Provider: "+name, "healthy")
					passed++
				}
			}
			if providerCount == 0 {
				printFail("Providers", "no providers enabled")
				failed++
			}

			// Summary
			fmt.Printf("\n━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
			fmt.Printf("Results: %d passed, %d warnings, %d failed\n", passed, warned, failed)
			if failed > 0 {
				fmt.Printf("\nPlease fix the failed checks before running netbot.\n")
				return fmt.Errorf("%d check(s) failed", failed)
			}
			if warned > 0 {
				fmt.Printf("\nnetbot should work but consider fixing the warnings.\n")
			} else {
				fmt.Printf("\nAll checks passed! netbot is ready to run.\n")
			}
			return nil
		},
	}
}

func checkTCP(addr string) error {
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return err
	}
	conn.Close()
	return nil
}

// checkSSH performs a real login and reads the software version, the same
// path the GetVersion tool takes.
func checkSSH(params device.Params) (string, error) {
	dialer := device.NewSSHDialer(device.SSHDialerConfig{Logger: logger})
	var version string
	err := device.WithSession(dialer, params, func(s device.Session) error {
		out, err := s.Run("show version")
		if err != nil {
			return err
		}
		version = tool.ExtractVersion(out)
		return nil
	})
	return version, err
}

func printPass(check, detail string) {
	fmt.Printf("  [PASS] %-20s %s\n", check, detail)
}

func printFail(check, detail string) {
	fmt.Printf("  [FAIL] %-20s %s\n", check, detail)
}

func printWarn(check, detail string) {
	fmt.Printf("  [WARN] %-20s %s\n", check, detail)
}
