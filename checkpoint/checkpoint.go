// Package checkpoint saves and restores a flow.State as an opaque blob,
// via gocloud.dev/blob so the same code path handles a local file, Google
// Cloud Storage, or S3 bucket URL, retrying failed I/O with an exponential
// backoff.
package checkpoint

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/sirupsen/logrus"
	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	"gocloud.dev/blob/gcsblob"
	"gocloud.dev/blob/s3blob"

	"github.com/ctessum/flowmg/flow"
	"github.com/ctessum/flowmg/grid"
)

// snapshot is the gob-encoded payload: raw field values plus the clock and
// persisted pressure gradient, sufficient to resume a TimeStepper's state
// without needing the Problem collaborator again.
type snapshot struct {
	Nx, Ny, Ng                     int
	Xmin, Xmax, Ymin, Ymax         float64
	T                              float64
	N                              int
	U, V, Phi, PhiMAC, GPX, GPY    []float64
}

// OpenBucket resolves a "provider://name" URL (file, gs, or s3) to a blob
// bucket, mirroring the scheme dispatch used elsewhere in this ecosystem
// for Google Cloud Storage and S3-backed buckets.
func OpenBucket(ctx context.Context, bucketURL string) (*blob.Bucket, error) {
	u, err := url.Parse(bucketURL)
	if err != nil {
		return nil, fmt.Errorf("flowmg: checkpoint: parsing bucket URL: %w", err)
	}
	switch u.Scheme {
	case "file":
		return fileblob.OpenBucket(u.Hostname()+u.Path, nil)
	case "gs":
		return gcsblob.OpenBucket(ctx, nil, u.Hostname(), nil)
	case "s3":
		return s3blob.OpenBucket(ctx, nil, u.Hostname(), nil)
	default:
		return nil, fmt.Errorf("flowmg: checkpoint: unsupported bucket scheme %q", u.Scheme)
	}
}

func toSnapshot(s *flow.State) snapshot {
	g := s.Grid
	return snapshot{
		Nx: g.Nx, Ny: g.Ny, Ng: g.Ng,
		Xmin: g.Xmin, Xmax: g.Xmax, Ymin: g.Ymin, Ymax: g.Ymax,
		T: s.T, N: s.N,
		U: s.U.Values(), V: s.V.Values(),
		Phi: s.Phi.Values(), PhiMAC: s.PhiMAC.Values(),
		GPX: s.GradPX.Values(), GPY: s.GradPY.Values(),
	}
}

func (sn snapshot) restore(bc grid.BCPolicy) (*flow.State, error) {
	g, err := grid.NewGrid2D(sn.Nx, sn.Ny, sn.Ng, sn.Xmin, sn.Xmax, sn.Ymin, sn.Ymax)
	if err != nil {
		return nil, err
	}
	s := flow.NewState(g, bc)
	s.T, s.N = sn.T, sn.N
	for _, f := range []struct {
		dst  *grid.CellArray
		vals []float64
	}{
		{s.U, sn.U}, {s.V, sn.V}, {s.Phi, sn.Phi}, {s.PhiMAC, sn.PhiMAC},
		{s.GradPX, sn.GPX}, {s.GradPY, sn.GPY},
	} {
		if err := f.dst.SetValues(f.vals); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// retry wraps op in an exponential backoff bounded to one minute of total
// elapsed time. Every error op returns is retried: transient errors and
// permanent ones (such as a missing key) are not told apart, so a permanent
// error is returned only once the minute has elapsed.
func retry(op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = time.Minute
	return backoff.RetryNotify(op, b, func(err error, d time.Duration) {
		logrus.WithError(err).Debugf("flowmg: checkpoint: retrying in %v", d)
	})
}

// Save gob-encodes s and writes it to key in bucket.
func Save(ctx context.Context, bucket *blob.Bucket, key string, s *flow.State) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(toSnapshot(s)); err != nil {
		return fmt.Errorf("flowmg: checkpoint: encoding: %w", err)
	}
	payload := buf.Bytes()

	return retry(func() error {
		w, err := bucket.NewWriter(ctx, key, nil)
		if err != nil {
			return fmt.Errorf("flowmg: checkpoint: opening writer for %s: %w", key, err)
		}
		if _, err := w.Write(payload); err != nil {
			w.Close()
			return fmt.Errorf("flowmg: checkpoint: writing %s: %w", key, err)
		}
		return w.Close()
	})
}

// Load reads and decodes the checkpoint at key in bucket, rebuilding a
// flow.State with boundary policy bc (the BC kinds are not themselves
// persisted, since they are a configuration input, not solver state).
func Load(ctx context.Context, bucket *blob.Bucket, key string, bc grid.BCPolicy) (*flow.State, error) {
	var payload []byte
	err := retry(func() error {
		r, err := bucket.NewReader(ctx, key, nil)
		if err != nil {
			return fmt.Errorf("flowmg: checkpoint: opening reader for %s: %w", key, err)
		}
		defer r.Close()
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, r); err != nil {
			return fmt.Errorf("flowmg: checkpoint: reading %s: %w", key, err)
		}
		payload = buf.Bytes()
		return nil
	})
	if err != nil {
		return nil, err
	}

	var sn snapshot
	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(&sn); err != nil {
		return nil, fmt.Errorf("flowmg: checkpoint: decoding %s: %w", key, err)
	}
	return sn.restore(bc)
}
