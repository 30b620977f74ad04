package media

import (
	"crypto/sha1"
	"encoding/hex"
	"strconv"

	"github.com/spf13/afero"

	"github.com/2mushr00m/dialLog/errors"
	"github.com/2mushr00m/dialLog/transcription"
)

// Identity is the stable description of one recording. Two reads of an
// unmodified file produce equal identities; any change of size, mtime or
// duration changes the key.
type Identity struct {
	Source     string `json:"source"`
	Size       int64  `json:"size"`
	ModTimeMs  int64  `json:"mod_time_ms"`
	DurationMs int64  `json:"duration_ms"`
}

// Key returns the hex SHA-1 of "source|size|mtime|duration".
func (id Identity) Key() string {
	return hashKey(id.base())
}

// Qualified returns a key that also covers an explicit language code.
// An empty code yields Key().
func (id Identity) Qualified(languageCode string) string {
	if languageCode == "" {
		return id.Key()
	}
	return hashKey(id.base() + "|lang=" + languageCode)
}

func (id Identity) base() string {
	return id.Source +
		"|" + strconv.FormatInt(id.Size, 10) +
		"|" + strconv.FormatInt(id.ModTimeMs, 10) +
		"|" + strconv.FormatInt(id.DurationMs, 10)
}

func hashKey(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// IdentityOf stats audio.Path on fs and builds its Identity. Source is the
// URI when set, otherwise the path.
func IdentityOf(fs afero.Fs, audio transcription.AudioRef) (Identity, error) {
	if err := audio.Validate(); err != nil {
		return Identity{}, err
	}
	info, err := fs.Stat(audio.Path)
	if err != nil {
		return Identity{}, errors.NotFound("audio", audio.Path).WithCause(err)
	}
	if info.IsDir() {
		return Identity{}, errors.InvalidInput("audio.path", "is a directory")
	}
	return Identity{
		Source:     audio.Source(),
		Size:       info.Size(),
		ModTimeMs:  info.ModTime().UnixMilli(),
		DurationMs: audio.DurationMs,
	}, nil
}
