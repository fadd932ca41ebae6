package parameter

// Genetic Algorithm - Engine Configuration
const (
	// GAPoolSize is the number of individuals in each population
	GAPoolSize = 20

	// GAGenerations is the number of evolutions after the initial population
	GAGenerations = 100

	// GAMutationRate is the per-gene mutation probability (0.0-1.0)
	GAMutationRate = 0.01

	// GATeamMutationRate is the per-slot mutation probability for team evolution
	GATeamMutationRate = 0.1

	// GAParallelism for batch evaluation, 1 evaluates inline
	GAParallelism = 1

	// GATournamentSize for selection pressure
	GATournamentSize = 3
)

// Genetic Algorithm - Continuous Surface
const (
	// GASurfaceMin and GASurfaceMax bound each coordinate
	GASurfaceMin = -5.0
	GASurfaceMax = 5.0

	// GASurfaceMutationStep is the default half-width of the uniform perturbation
	GASurfaceMutationStep = 1.0
)

// Genetic Algorithm - Knapsack
const (
	// GAKnapsackCapacity is the default space limit
	GAKnapsackCapacity = 3.0

	// GAKnapsackPenalty is the fitness of any selection exceeding capacity
	GAKnapsackPenalty = 1.0

	// GAKnapsackBitProbability is the chance each bit starts set
	GAKnapsackBitProbability = 0.5
)

// Genetic Algorithm - Team
const (
	// GATeamSize is the fixed number of entities per team
	GATeamSize = 6
)

// Persistence
const (
	// GeneticDatabasePath is the default SQLite run store
	GeneticDatabasePath = "./runs/gasolve.db"

	// GeneticHistoryLimit is the default number of runs listed from the store
	GeneticHistoryLimit = 20
)

// Logging
const (
	// GeneticLogPath receives debug logs while the terminal dashboard owns the screen
	GeneticLogPath = "./runs/gasolve.log"
)
