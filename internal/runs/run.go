package runs

import "errors"

// Required and optional column names of a run CSV.
const (
	ColEpisode   = "episode"
	ColReward    = "reward"
	ColSteps     = "steps"
	ColReached   = "reached"
	ColAlgorithm = "algorithm"
	ColEpisodes  = "episodes"
	ColAlpha     = "alpha"
	ColGamma     = "gamma"
	ColEpsilon   = "epsilon"
)

// RequiredColumns lists the columns every run file must carry.
var RequiredColumns = []string{ColEpisode, ColReward, ColSteps, ColReached}

var (
	// ErrNoRunFiles reports that discovery matched nothing.
	ErrNoRunFiles = errors.New("no run files found")
	// ErrUnparsable marks a file that could not be read as a run.
	ErrUnparsable = errors.New("unparsable run file")
	// ErrMissingColumn marks a run file whose header lacks a required column.
	ErrMissingColumn = errors.New("missing required column")
	// ErrNoValidRuns reports that every discovered file was skipped.
	ErrNoValidRuns = errors.New("no valid run files")
)

// Episode is one logged episode of a run.
type Episode struct {
	Number  int
	Reward  float64
	Steps   int
	Reached bool
}

// Hyperparameters are the optional configuration cells of a run. They are kept
// verbatim; aggregation never reads them.
type Hyperparameters struct {
	Alpha   string
	Gamma   string
	Epsilon string
}

// Run is one parsed run file.
type Run struct {
	Source           string
	Algorithm        string
	DeclaredEpisodes int
	Params           Hyperparameters
	Episodes         []Episode

	byNumber map[int]int
}

// NewRun builds a run and indexes its episodes by number. When an episode
// number repeats, the first row wins.
func NewRun(source, algorithm string, episodes []Episode) Run {
	run := Run{
		Source:    source,
		Algorithm: algorithm,
		Episodes:  episodes,
	}
	run.index()
	run.DeclaredEpisodes = run.MaxEpisode()
	return run
}

func (r *Run) index() {
	r.byNumber = make(map[int]int, len(r.Episodes))
	for i, ep := range r.Episodes {
		if _, ok := r.byNumber[ep.Number]; ok {
			continue
		}
		r.byNumber[ep.Number] = i
	}
}

// MaxEpisode returns the largest episode number in the run.
func (r Run) MaxEpisode() int {
	max := 0
	for _, ep := range r.Episodes {
		if ep.Number > max {
			max = ep.Number
		}
	}
	return max
}

// Episode looks up an episode by its 1-based number.
func (r Run) Episode(number int) (Episode, bool) {
	if r.byNumber == nil {
		r.index()
	}
	i, ok := r.byNumber[number]
	if !ok {
		return Episode{}, false
	}
	return r.Episodes[i], true
}
