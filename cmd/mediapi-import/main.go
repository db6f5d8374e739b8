// Command mediapi-import loads a YAML fleet inventory into the hub database.
// Intended for operator bootstrap: describe accounts, their device groups and
// devices in one file and apply it in a single run.
//
// Usage:
//
//	mediapi-import -db ./data/mediapi-hub.db -file inventory.yaml
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/mattn/go-sqlite3"
	"gopkg.in/yaml.v3"

	"github.com/dkovalev/mediapi-hub-go/internal/accounts"
	"github.com/dkovalev/mediapi-hub-go/internal/db"
	"github.com/dkovalev/mediapi-hub-go/internal/devices"
	"github.com/dkovalev/mediapi-hub-go/internal/groups"
)

type inventoryDevice struct {
	Name  string `yaml:"name"`
	Group string `yaml:"group,omitempty"`
}

type inventoryGroup struct {
	Name string `yaml:"name"`
}

type inventoryAccount struct {
	Name    string            `yaml:"name"`
	Groups  []inventoryGroup  `yaml:"groups,omitempty"`
	Devices []inventoryDevice `yaml:"devices,omitempty"`
}

type inventory struct {
	Accounts          []inventoryAccount `yaml:"accounts"`
	UnassignedDevices []string           `yaml:"unassigned_devices,omitempty"`
}

func main() {
	dbPath := flag.String("db", "./data/mediapi-hub.db", "path to the hub SQLite database")
	filePath := flag.String("file", "", "path to the YAML inventory file")
	flag.Parse()

	if *filePath == "" {
		log.Fatal("usage: mediapi-import -db <path> -file <inventory.yaml>")
	}

	raw, err := os.ReadFile(*filePath)
	if err != nil {
		log.Fatalf("read inventory: %v", err)
	}

	var inv inventory
	if err := yaml.Unmarshal(raw, &inv); err != nil {
		log.Fatalf("parse inventory: %v", err)
	}

	dbPair, err := db.Init(*dbPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer dbPair.Close()

	if err := apply(dbPair, inv); err != nil {
		log.Fatalf("import failed: %v", err)
	}
}

func apply(dbPair *db.DBPair, inv inventory) error {
	accountsRepo := accounts.NewRepository(dbPair)
	groupsRepo := groups.NewRepository(dbPair)
	devicesRepo := devices.NewRepository(dbPair)

	created := 0
	for _, acc := range inv.Accounts {
		if acc.Name == "" {
			return fmt.Errorf("account with empty name")
		}
		account, err := accountsRepo.Create(accounts.CreateAccountInput{Name: acc.Name})
		if err != nil {
			return fmt.Errorf("create account %q: %w", acc.Name, err)
		}
		created++

		groupIDs := map[string]int64{}
		for _, grp := range acc.Groups {
			if grp.Name == "" {
				return fmt.Errorf("account %q: group with empty name", acc.Name)
			}
			group, err := groupsRepo.Create(groups.CreateGroupInput{
				Name:      grp.Name,
				AccountID: account.ID,
			})
			if err != nil {
				return fmt.Errorf("create group %q: %w", grp.Name, err)
			}
			groupIDs[grp.Name] = group.ID
			created++
		}

		for _, dev := range acc.Devices {
			if dev.Name == "" {
				return fmt.Errorf("account %q: device with empty name", acc.Name)
			}
			input := devices.CreateDeviceInput{Name: dev.Name, AccountID: account.ID}
			if dev.Group != "" {
				groupID, ok := groupIDs[dev.Group]
				if !ok {
					return fmt.Errorf("device %q references unknown group %q", dev.Name, dev.Group)
				}
				input.DeviceGroupID = groupID
			}
			if _, err := devicesRepo.Create(input); err != nil {
				return fmt.Errorf("create device %q: %w", dev.Name, err)
			}
			created++
		}
	}

	for _, name := range inv.UnassignedDevices {
		if name == "" {
			return fmt.Errorf("unassigned device with empty name")
		}
		if _, err := devicesRepo.Create(devices.CreateDeviceInput{Name: name}); err != nil {
			return fmt.Errorf("create device %q: %w", name, err)
		}
		created++
	}

	log.Printf("imported %d records", created)
	return nil
}
