package storage

import (
	"fmt"
	"time"
)

// ObjectKey addresses one ingested file in the bucket, partitioned by the
// run's UTC date.
type ObjectKey struct {
	Prefix string
	Date   time.Time
	Suffix string
}

func (k ObjectKey) Key() string {
	return fmt.Sprintf("%s/%s/%s.csv", k.Prefix, k.Date.UTC().Format("2006/01/02"), k.Suffix)
}
