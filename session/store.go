// Package session is the durable client-side state: the bearer token,
// the serialized profile of the logged-in user, and short-lived
// forced-action notices keyed by user email.
//
// All data lives in a single BoltDB file so no external process is
// needed. The store is the only writer; every other package reads
// through it and mutates only via Login/Logout/UpdateUser.
package session

import (
	"encoding/json"
	"errors"
	"time"

	bolt "github.com/boltdb/bolt"

	"localloop/model"
)

const (
	bucketSession = "session"
	bucketNotices = "notices"

	keyToken = "token"
	keyUser  = "user"

	noticeTTL = 24 * time.Hour
)

// ErrNoSession is returned when no user is logged in.
var ErrNoSession = errors.New("not logged in")

type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the session database and ensures both buckets
// exist. Creating buckets on every open is idempotent.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(bucketSession)); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists([]byte(bucketNotices))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Login replaces the stored identity wholesale.
func (s *Store) Login(token string, u model.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketSession))
		if err := b.Put([]byte(keyToken), []byte(token)); err != nil {
			return err
		}
		return b.Put([]byte(keyUser), data)
	})
}

// Logout clears the identity. Logging out twice is a no-op.
func (s *Store) Logout() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketSession))
		if err := b.Delete([]byte(keyToken)); err != nil {
			return err
		}
		return b.Delete([]byte(keyUser))
	})
}

// Token implements httpx.TokenSource. Returns "" when logged out.
func (s *Store) Token() string {
	var tok string
	_ = s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket([]byte(bucketSession)).Get([]byte(keyToken)); v != nil {
			tok = string(v)
		}
		return nil
	})
	return tok
}

// Current returns the stored profile, or ErrNoSession.
func (s *Store) Current() (*model.User, error) {
	var u model.User
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketSession)).Get([]byte(keyUser))
		if v == nil {
			return ErrNoSession
		}
		return json.Unmarshal(v, &u)
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUser replaces the stored profile. It refuses to create a
// session out of thin air; a token must already be present.
func (s *Store) UpdateUser(u model.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketSession))
		if b.Get([]byte(keyToken)) == nil {
			return ErrNoSession
		}
		return b.Put([]byte(keyUser), data)
	})
}

// Notice is a one-shot reminder for a user, e.g. "leave a review" after
// a lender force-completed a return.
type Notice struct {
	Email     string    `json:"email"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"created_at"`
}

// PutNotice stores a notice for the given email, replacing any earlier
// one. Notices expire noticeTTL after creation.
func (s *Store) PutNotice(email, action string) error {
	return s.putNotice(Notice{Email: email, Action: action, CreatedAt: time.Now().UTC()})
}

func (s *Store) putNotice(n Notice) error {
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketNotices)).Put([]byte(n.Email), data)
	})
}

// TakeNotice returns and removes the pending notice for email. Expired
// notices are deleted and reported as absent.
func (s *Store) TakeNotice(email string) (*Notice, error) {
	var n *Notice
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketNotices))
		v := b.Get([]byte(email))
		if v == nil {
			return nil
		}
		var stored Notice
		if err := json.Unmarshal(v, &stored); err != nil {
			return err
		}
		if err := b.Delete([]byte(email)); err != nil {
			return err
		}
		if time.Since(stored.CreatedAt) > noticeTTL {
			return nil
		}
		n = &stored
		return nil
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}
