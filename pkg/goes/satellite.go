package goes

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidArgument is wrapped by every error caused by a bad caller input.
var ErrInvalidArgument = errors.New("goes: invalid argument")

// ErrInvalidSatellite is returned for satellite numbers without a public bucket.
var ErrInvalidSatellite = fmt.Errorf("%w: unsupported satellite", ErrInvalidArgument)

// Satellite identifies a GOES spacecraft by its number.
type Satellite int

// Satellites with a public NOAA bucket.
const (
	GOES16 Satellite = 16
	GOES17 Satellite = 17
	GOES18 Satellite = 18
)

// Validate reports whether s is one of GOES16, GOES17 or GOES18.
func (s Satellite) Validate() error {
	switch s {
	case GOES16, GOES17, GOES18:
		return nil
	}
	return fmt.Errorf("%w: %d (want 16, 17 or 18)", ErrInvalidSatellite, int(s))
}

// String returns the satellite number, e.g. "16".
func (s Satellite) String() string {
	return strconv.Itoa(int(s))
}

// Bucket returns the NOAA bucket name, e.g. "noaa-goes16".
func (s Satellite) Bucket() string {
	return "noaa-goes" + s.String()
}

// ParseSatellite parses a satellite number such as "16" or "G16".
func ParseSatellite(s string) (Satellite, error) {
	if len(s) > 0 && (s[0] == 'G' || s[0] == 'g') {
		s = s[1:]
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSatellite, s)
	}
	sat := Satellite(n)
	if err := sat.Validate(); err != nil {
		return 0, err
	}
	return sat, nil
}
