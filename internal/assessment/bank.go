package assessment

import (
	"context"
	"sort"
	"strings"
)

// questionTemplate is one entry in a subject's template pool.
type questionTemplate struct {
	Topic      string
	Difficulty Difficulty
	Prompt     string
	Options    []string
	Correct    int
}

// templatePools holds the placeholder content per subject. Generation
// cycles through a pool until the requested count is reached.
var templatePools = map[string][]questionTemplate{
	"Physics": {
		{"Mechanics", DifficultyEasy, "What is the SI unit of force?",
			[]string{"Joule", "Newton", "Watt", "Pascal"}, 1},
		{"Kinematics", DifficultyMedium, "A body starts from rest and accelerates uniformly at 2 m/s^2. What is its velocity after 5 s?",
			[]string{"5 m/s", "7 m/s", "10 m/s", "25 m/s"}, 2},
		{"Optics", DifficultyMedium, "Which phenomenon explains the splitting of white light into colours by a prism?",
			[]string{"Reflection", "Dispersion", "Diffraction", "Polarisation"}, 1},
		{"Thermodynamics", DifficultyHard, "In an isothermal process for an ideal gas, which quantity stays constant?",
			[]string{"Pressure", "Volume", "Internal energy", "Heat supplied"}, 2},
		{"Electricity", DifficultyEasy, "Ohm's law relates voltage to which two quantities?",
			[]string{"Current and resistance", "Power and time", "Charge and capacitance", "Energy and current"}, 0},
	},
	"Chemistry": {
		{"Atomic Structure", DifficultyEasy, "What is the atomic number of carbon?",
			[]string{"4", "6", "12", "14"}, 1},
		{"Chemical Bonding", DifficultyMedium, "Which type of bond is formed by sharing electron pairs?",
			[]string{"Ionic", "Metallic", "Covalent", "Hydrogen"}, 2},
		{"Periodic Table", DifficultyEasy, "Which group contains the noble gases?",
			[]string{"Group 1", "Group 2", "Group 17", "Group 18"}, 3},
		{"Equilibrium", DifficultyHard, "Adding a catalyst to a reaction at equilibrium will",
			[]string{"Shift it to the right", "Shift it to the left", "Not change the equilibrium position", "Increase the equilibrium constant"}, 2},
		{"Acids and Bases", DifficultyMedium, "What is the pH of a neutral solution at 25 °C?",
			[]string{"0", "1", "7", "14"}, 2},
	},
	"Mathematics": {
		{"Algebra", DifficultyEasy, "Solve for x: 2x + 6 = 14",
			[]string{"2", "4", "6", "8"}, 1},
		{"Calculus", DifficultyMedium, "What is the derivative of x^3?",
			[]string{"x^2", "3x^2", "3x", "x^4/4"}, 1},
		{"Trigonometry", DifficultyEasy, "What is sin(90°)?",
			[]string{"0", "1/2", "1", "√3/2"}, 2},
		{"Probability", DifficultyMedium, "A fair die is rolled once. What is the probability of an even number?",
			[]string{"1/6", "1/3", "1/2", "2/3"}, 2},
		{"Coordinate Geometry", DifficultyHard, "What is the slope of the line through (1, 2) and (3, 8)?",
			[]string{"2", "3", "4", "6"}, 1},
	},
	"Biology": {
		{"Cell Biology", DifficultyEasy, "Which organelle is known as the powerhouse of the cell?",
			[]string{"Nucleus", "Ribosome", "Mitochondrion", "Golgi body"}, 2},
		{"Genetics", DifficultyMedium, "DNA replication is described as",
			[]string{"Conservative", "Semi-conservative", "Dispersive", "Random"}, 1},
		{"Human Physiology", DifficultyEasy, "Which blood cells carry oxygen?",
			[]string{"White blood cells", "Platelets", "Red blood cells", "Plasma cells"}, 2},
		{"Plant Biology", DifficultyMedium, "Photosynthesis mainly takes place in which organelle?",
			[]string{"Chloroplast", "Vacuole", "Mitochondrion", "Cell wall"}, 0},
		{"Ecology", DifficultyHard, "Organisms that occupy the first trophic level are",
			[]string{"Herbivores", "Producers", "Decomposers", "Carnivores"}, 1},
	},
}

// Subjects returns the subjects that have their own template pool, sorted.
func Subjects() []string {
	names := make([]string, 0, len(templatePools))
	for name := range templatePools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// resolveSubject finds the pool for subject, ignoring case. Unknown
// subjects use the default pool.
func resolveSubject(subject string) (string, []questionTemplate) {
	for name, pool := range templatePools {
		if strings.EqualFold(name, strings.TrimSpace(subject)) {
			return name, pool
		}
	}
	return DefaultSubject, templatePools[DefaultSubject]
}

// GenerateQuestions builds count questions for subject by cycling through
// its template pool. IDs run 1..count in order and the output is the same
// for the same subject and count.
func GenerateQuestions(subject string, count int) []Question {
	if count <= 0 {
		return []Question{}
	}

	name, pool := resolveSubject(subject)
	questions := make([]Question, count)
	for i := 0; i < count; i++ {
		t := pool[i%len(pool)]
		questions[i] = Question{
			ID:                 i + 1,
			Prompt:             t.Prompt,
			Options:            append([]string(nil), t.Options...),
			CorrectOptionIndex: t.Correct,
			Subject:            name,
			Topic:              t.Topic,
			Difficulty:         t.Difficulty,
		}
	}
	return questions
}

// QuestionSource produces the question bank for a session.
type QuestionSource interface {
	Questions(ctx context.Context, cfg SessionConfig) ([]Question, error)
}

// BankSource serves questions from the built-in template pools.
type BankSource struct{}

var _ QuestionSource = BankSource{}

func (BankSource) Questions(_ context.Context, cfg SessionConfig) ([]Question, error) {
	return GenerateQuestions(cfg.Subject, cfg.TotalQuestions), nil
}
