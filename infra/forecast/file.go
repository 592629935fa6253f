package forecast

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/voltsched/greencharge/core/carbon"
)

// feedTimeLayout matches the national carbon feed timestamps, minute
// precision with a literal Z suffix, always UTC.
const feedTimeLayout = "2006-01-02T15:04Z"

type feedEnvelope struct {
	Data []feedEntry `json:"data"`
}

type feedEntry struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Intensity struct {
		Forecast float64  `json:"forecast"`
		Actual   *float64 `json:"actual"`
	} `json:"intensity"`
}

// LoadFile reads a carbon-intensity feed JSON file into a Series.
func LoadFile(path string) (carbon.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return carbon.Series{}, fmt.Errorf("open carbon feed: %w", err)
	}
	defer func() { _ = f.Close() }()
	return DecodeFeed(f)
}

// DecodeFeed parses the feed envelope from r. The measured ("actual") value
// is preferred per record, falling back to the forecast value when absent.
func DecodeFeed(r io.Reader) (carbon.Series, error) {
	var env feedEnvelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return carbon.Series{}, fmt.Errorf("decode carbon feed: %w", err)
	}
	records := make([]carbon.Record, 0, len(env.Data))
	for i, e := range env.Data {
		from, err := time.Parse(feedTimeLayout, e.From)
		if err != nil {
			return carbon.Series{}, fmt.Errorf("entry %d: bad from timestamp: %w", i, err)
		}
		to, err := time.Parse(feedTimeLayout, e.To)
		if err != nil {
			return carbon.Series{}, fmt.Errorf("entry %d: bad to timestamp: %w", i, err)
		}
		rec := carbon.Record{From: from.UTC(), To: to.UTC(), Intensity: e.Intensity.Forecast}
		if e.Intensity.Actual != nil {
			rec.Intensity = *e.Intensity.Actual
		}
		if err := rec.Validate(); err != nil {
			return carbon.Series{}, fmt.Errorf("entry %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return carbon.Series{Records: records}, nil
}
