package engine

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// AnteRequirement is the chip target for each blind type in one ante.
type AnteRequirement struct {
	Small int
	Big   int
	Boss  int
}

// HandScore is the base-chips-per-level and multiplier for one hand rank,
// the planet-card "level" progression from the data model.
type HandScore struct {
	Name        string
	LevelScores []int
	Multiplier  int
}

// Config holds tabular game configuration loaded from CSV, mirroring the
// teacher's config.go loader almost verbatim — stdlib encoding/csv is kept
// here because it's the teacher's own choice for this data and no CSV
// library appears anywhere in the retrieved pack.
type Config struct {
	AnteRequirements []AnteRequirement
	HandScores       map[string]HandScore
	BaseDir          string
}

var gameConfig *Config

// LoadConfig loads configuration from CSV files under baseDir, falling back
// to hardcoded defaults (and a warning on stdout) for any file that's
// missing or malformed — same fallback idiom as the teacher.
func LoadConfig(baseDir string) error {
	config := &Config{
		HandScores: make(map[string]HandScore),
		BaseDir:    baseDir,
	}

	if err := config.loadAnteRequirements(); err != nil {
		fmt.Printf("Warning: could not load ante_requirements.csv, using defaults: %v\n", err)
		config.setDefaultAnteRequirements()
	}

	if err := config.loadHandScores(); err != nil {
		fmt.Printf("Warning: could not load hand_scores.csv, using defaults: %v\n", err)
		config.setDefaultHandScores()
	}

	gameConfig = config
	return nil
}

func (c *Config) loadAnteRequirements() error {
	file, err := os.Open(filepath.Join(c.BaseDir, "ante_requirements.csv"))
	if err != nil {
		return err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return err
	}
	if len(records) < 2 {
		return fmt.Errorf("ante_requirements.csv must have at least a header and one data row")
	}

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) != 3 {
			return fmt.Errorf("ante_requirements.csv row %d must have exactly 3 columns", i+1)
		}
		small, err := strconv.Atoi(record[0])
		if err != nil {
			return fmt.Errorf("invalid small blind value in row %d: %v", i+1, err)
		}
		big, err := strconv.Atoi(record[1])
		if err != nil {
			return fmt.Errorf("invalid big blind value in row %d: %v", i+1, err)
		}
		boss, err := strconv.Atoi(record[2])
		if err != nil {
			return fmt.Errorf("invalid boss blind value in row %d: %v", i+1, err)
		}
		c.AnteRequirements = append(c.AnteRequirements, AnteRequirement{Small: small, Big: big, Boss: boss})
	}
	return nil
}

func (c *Config) loadHandScores() error {
	file, err := os.Open(filepath.Join(c.BaseDir, "hand_scores.csv"))
	if err != nil {
		return err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return err
	}
	if len(records) < 2 {
		return fmt.Errorf("hand_scores.csv must have at least a header and one data row")
	}

	header := records[0]
	if len(header) < 3 {
		return fmt.Errorf("hand_scores.csv must have at least hand, one level, and mult columns")
	}
	levelCount := len(header) - 2

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) != len(header) {
			return fmt.Errorf("hand_scores.csv row %d must have exactly %d columns", i+1, len(header))
		}
		handName := record[0]
		levels := make([]int, levelCount)
		for j := 0; j < levelCount; j++ {
			baseScore, err := strconv.Atoi(record[j+1])
			if err != nil {
				return fmt.Errorf("invalid level %d base score for %s in row %d: %v", j+1, handName, i+1, err)
			}
			levels[j] = baseScore
		}
		multiplier, err := strconv.Atoi(record[len(record)-1])
		if err != nil {
			return fmt.Errorf("invalid multiplier for %s in row %d: %v", handName, i+1, err)
		}
		c.HandScores[handName] = HandScore{Name: handName, LevelScores: levels, Multiplier: multiplier}
	}
	return nil
}

func (c *Config) setDefaultAnteRequirements() {
	c.AnteRequirements = []AnteRequirement{
		{300, 450, 600},
		{375, 562, 750},
		{450, 675, 900},
		{525, 787, 1050},
		{600, 900, 1200},
		{675, 1012, 1350},
		{750, 1125, 1500},
		{825, 1237, 1650},
	}
}

func (c *Config) setDefaultHandScores() {
	for _, hs := range defaultHandScores {
		c.HandScores[hs.Name] = hs
	}
}

// defaultHandScores is the hardcoded fallback table, extended from the
// teacher's ten-rank table with the three duplicate-rank-only ranks the
// expanded spec adds above Four of a Kind.
var defaultHandScores = []HandScore{
	{"High Card", []int{5, 10, 15, 20, 25}, 1},
	{"Pair", []int{10, 15, 20, 25, 30}, 2},
	{"Two Pair", []int{20, 25, 30, 35, 40}, 2},
	{"Three of a Kind", []int{30, 35, 40, 45, 50}, 3},
	{"Straight", []int{30, 35, 40, 45, 50}, 4},
	{"Flush", []int{35, 40, 45, 50, 55}, 4},
	{"Full House", []int{40, 45, 50, 55, 60}, 4},
	{"Four of a Kind", []int{60, 65, 70, 75, 80}, 7},
	{"Straight Flush", []int{100, 105, 110, 115, 120}, 8},
	{"Royal Flush", []int{100, 105, 110, 115, 120}, 8},
	{"Five of a Kind", []int{120, 125, 130, 135, 140}, 10},
	{"Flush House", []int{140, 145, 150, 155, 160}, 12},
	{"Flush Five", []int{160, 165, 170, 175, 180}, 14},
}

// GetAnteRequirement returns the chip target for a given ante and blind
// type, falling back to a formula when no config has been loaded.
func GetAnteRequirement(ante int, blindType BlindType) int {
	if gameConfig == nil || ante < 1 || ante > len(gameConfig.AnteRequirements) {
		base := 300
		requirement := base + (ante-1)*75
		switch blindType {
		case SmallBlind:
			return requirement
		case BigBlind:
			return int(float64(requirement) * 1.5)
		case BossBlind:
			return requirement * 2
		default:
			return requirement
		}
	}

	req := gameConfig.AnteRequirements[ante-1]
	switch blindType {
	case SmallBlind:
		return req.Small
	case BigBlind:
		return req.Big
	case BossBlind:
		return req.Boss
	default:
		return req.Small
	}
}

// GetHandScore returns the (base chips, multiplier) pair for a hand name at
// a given level.
func GetHandScore(handName string, level int) (int, int) {
	if level < 1 {
		level = 1
	}
	table := gameConfig
	lookup := func(scores map[string]HandScore) (int, int, bool) {
		score, ok := scores[handName]
		if !ok {
			return 0, 0, false
		}
		idx := level - 1
		if idx >= len(score.LevelScores) {
			idx = len(score.LevelScores) - 1
		}
		return score.LevelScores[idx], score.Multiplier, true
	}

	if table != nil {
		if chips, mult, ok := lookup(table.HandScores); ok {
			return chips, mult
		}
	}

	defaults := make(map[string]HandScore, len(defaultHandScores))
	for _, hs := range defaultHandScores {
		defaults[hs.Name] = hs
	}
	if chips, mult, ok := lookup(defaults); ok {
		return chips, mult
	}
	return 5, 1
}

// GetAllHandScores returns all configured hand scores for display purposes.
func GetAllHandScores() map[string]HandScore {
	if gameConfig == nil {
		return make(map[string]HandScore)
	}
	return gameConfig.HandScores
}

// GetAllAnteRequirements returns all configured ante requirements for
// display purposes.
func GetAllAnteRequirements() []AnteRequirement {
	if gameConfig == nil {
		return make([]AnteRequirement, 0)
	}
	return gameConfig.AnteRequirements
}
