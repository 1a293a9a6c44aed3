package snd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// ErrCardNotFound is returned when a card identifier does not name any registered card.
var ErrCardNotFound = errors.New("card not found")

// procAsound is the procfs directory the kernel publishes card information in.
var procAsound = "/proc/asound"

var (
	cardRegex = regexp.MustCompile(`^\s*(\d+)\s+\[\s*([^]]*?)\s*\]:\s*(.*)`)
	// Lines like "02-00: Loopback PCM : Loopback PCM : playback 8 : capture 8"
	pcmRegex  = regexp.MustCompile(`^(\d+)-(\d+): (.*?) :.*`)
	cardEntry = regexp.MustCompile(`^card(\d+)$`)
)

// SoundCardDevice represents a single PCM device on a sound card.
type SoundCardDevice struct {
	ID          int
	Name        string
	Description string
	IsPlayback  bool // True for playback, false for capture
}

// String returns a human-readable representation of the SoundCardDevice.
func (d SoundCardDevice) String() string {
	direction := "Capture"
	if d.IsPlayback {
		direction = "Playback"
	}

	return fmt.Sprintf("  Device %d: %s (%s) [%s]", d.ID, d.Name, d.Description, direction)
}

// SoundCard represents an enumerated sound card with its devices.
type SoundCard struct {
	ID          int
	Name        string
	Description string
	Devices     []SoundCardDevice
}

// String returns a human-readable representation of the SoundCard.
func (c SoundCard) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Card %d: %s (%s)\n", c.ID, c.Name, c.Description))
	for _, dev := range c.Devices {
		sb.WriteString(dev.String() + "\n")
	}

	return sb.String()
}

// EnumerateCards lists the registered sound cards and their PCM devices.
func EnumerateCards() ([]SoundCard, error) {
	cardsFile := filepath.Join(procAsound, "cards")
	cardsContent, err := os.ReadFile(cardsFile)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", cardsFile, err)
	}

	pcmFile := filepath.Join(procAsound, "pcm")
	pcmContent, err := os.ReadFile(pcmFile)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("could not read %s: %w", pcmFile, err)
	}

	return parseCards(string(cardsContent), string(pcmContent)), nil
}

func parseCards(cards, pcms string) []SoundCard {
	cardMap := make(map[int]*SoundCard)

	for _, line := range strings.Split(cards, "\n") {
		matches := cardRegex.FindStringSubmatch(line)
		if len(matches) != 4 {
			continue
		}

		id, err := strconv.Atoi(matches[1])
		if err != nil {
			continue
		}

		cardMap[id] = &SoundCard{
			ID:          id,
			Name:        strings.TrimSpace(matches[2]),
			Description: strings.TrimSpace(matches[3]),
		}
	}

	for _, line := range strings.Split(pcms, "\n") {
		matches := pcmRegex.FindStringSubmatch(line)
		if len(matches) < 4 {
			continue
		}

		cardID, _ := strconv.Atoi(matches[1])
		devID, _ := strconv.Atoi(matches[2])

		card, ok := cardMap[cardID]
		if !ok {
			continue
		}

		description := strings.TrimSpace(matches[3])

		// A PCM device with both directions yields one entry per direction.
		if strings.Contains(line, "playback") {
			card.Devices = append(card.Devices, SoundCardDevice{
				ID:          devID,
				Name:        fmt.Sprintf("pcm%dp", devID),
				Description: description,
				IsPlayback:  true,
			})
		}

		if strings.Contains(line, "capture") {
			card.Devices = append(card.Devices, SoundCardDevice{
				ID:          devID,
				Name:        fmt.Sprintf("pcm%dc", devID),
				Description: description,
			})
		}
	}

	ids := make([]int, 0, len(cardMap))
	for id := range cardMap {
		ids = append(ids, id)
	}

	sort.Ints(ids)

	result := make([]SoundCard, 0, len(ids))
	for _, id := range ids {
		result = append(result, *cardMap[id])
	}

	return result
}

// CardIndex resolves a card identifier to its number. Decimal identifiers are taken as the
// number itself; anything else is looked up as the /proc/asound/<id> link the kernel keeps
// for each card.
func CardIndex(id string) (uint, error) {
	if id == "" {
		return 0, fmt.Errorf("%w: empty card id", ErrCardNotFound)
	}

	if n, err := strconv.ParseUint(id, 10, 32); err == nil {
		return uint(n), nil
	}

	if strings.Contains(id, "/") || id == "." || id == ".." {
		return 0, fmt.Errorf("%w: invalid card id %q", ErrCardNotFound, id)
	}

	path := filepath.Join(procAsound, id)

	buf := make([]byte, 64)
	n, err := unix.Readlink(path, buf)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrCardNotFound, id, err)
	}

	matches := cardEntry.FindStringSubmatch(string(buf[:n]))
	if matches == nil {
		return 0, fmt.Errorf("%w: %s links to %q", ErrCardNotFound, id, string(buf[:n]))
	}

	index, err := strconv.ParseUint(matches[1], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrCardNotFound, id, err)
	}

	return uint(index), nil
}
