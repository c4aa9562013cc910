package database

import (
	"fmt"
)

const demoSeed = "000002_seed_demo"

// DemoSeed returns the statements that remove and re-insert the demo rows,
// taken from the seed migration.
func DemoSeed() (clearSQL, seedSQL string, err error) {
	down, err := migrations.ReadFile("migrations/" + demoSeed + ".down.sql")
	if err != nil {
		return "", "", fmt.Errorf("read demo seed: %w", err)
	}
	up, err := migrations.ReadFile("migrations/" + demoSeed + ".up.sql")
	if err != nil {
		return "", "", fmt.Errorf("read demo seed: %w", err)
	}
	return string(down), string(up), nil
}
