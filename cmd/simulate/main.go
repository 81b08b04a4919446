// Package main runs one complete scripted session from the command
// line and prints the final recap. Useful for balance checks and for
// verifying content changes end to end.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/kingdom-crisis/server/internal/domain/crisis"
	"github.com/kingdom-crisis/server/internal/domain/role"
	"github.com/kingdom-crisis/server/internal/engine"
	"github.com/kingdom-crisis/server/internal/events"
	"github.com/kingdom-crisis/server/internal/platform/logger"
)

func main() {
	seed := flag.Int64("seed", 0, "RNG seed (0 seeds from the clock)")
	roleFlag := flag.String("role", "", "fixed role: king, captain, or spy (empty for random)")
	crisisFlag := flag.String("crisis", "", "fixed crisis id (empty for random)")
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	library, err := engine.LoadContent()
	if err != nil {
		fmt.Fprintf(os.Stderr, "content: %v\n", err)
		os.Exit(1)
	}

	cfg := engine.DefaultConfig()
	eng := engine.NewEngine(library, cfg, rand.New(rand.NewSource(*seed)), events.NewEventLog(nil), logger.NewLogger())

	var snap engine.Snapshot
	if *roleFlag != "" && *crisisFlag != "" {
		snap, err = eng.BeginAs(role.Role(*roleFlag), crisis.Crisis(*crisisFlag))
	} else {
		snap, err = eng.Begin()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "begin: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("=== Session %s ===\n", snap.SessionID)
	fmt.Printf("Role: %s | Crisis: %s | Seed: %d\n\n", snap.RoleName, snap.Crisis, *seed)

	// A simple scripted player: investigate early, prepare mid-game,
	// acquire whenever preparation is out of reach, advance every slot.
	actions := eng.Actions()
	for slot := 0; slot < cfg.TotalSlots(); slot++ {
		if slot%3 == 0 && len(actions.Investigation) > 0 {
			if s, err := eng.Investigate(actions.Investigation[0].ID); err == nil {
				item := s.Evidence[len(s.Evidence)-1]
				fmt.Printf("day %d %s: evidence %s\n", s.Day, s.SlotName, item.ID)
			}
		}

		prepared := false
		for _, p := range actions.Preparation {
			if _, err := eng.Prepare(p.ID); err == nil {
				fmt.Printf("day %d: prepared %s\n", snap.Day, p.Name)
				prepared = true
				break
			}
		}
		if !prepared && len(actions.Acquisition) > 0 {
			for _, a := range actions.Acquisition {
				if _, err := eng.PerformAcquisition(a.ID); err == nil {
					break
				}
			}
		}

		snap, err = eng.Advance()
		if err != nil {
			fmt.Fprintf(os.Stderr, "advance: %v\n", err)
			os.Exit(1)
		}
		for _, ev := range snap.Events {
			if ev.Slot == slot {
				fmt.Printf("day %d: event fired: %s\n", ev.Day, ev.Name)
			}
		}
	}

	recap, err := eng.Recap()
	if err != nil {
		fmt.Fprintf(os.Stderr, "recap: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\n=== Resolution ===")
	fmt.Printf("Score: %.2f (%s) -> %s\n", recap.Score, recap.Band, recap.Outcome)
	fmt.Printf("Preparations: %d | Evidence: %d | Events: %d\n", recap.ActionCount, recap.EvidenceCount, recap.EventCount)
	fmt.Printf("\n%s\n\n%s\n", recap.EndingTitle, recap.EndingText)
	fmt.Println("Final resources:")
	for name, v := range recap.FinalResources {
		fmt.Printf("  %-18s %3d\n", name, v)
	}
}
