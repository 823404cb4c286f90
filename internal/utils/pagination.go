package utils

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidCursor возвращается при нечитаемом курсоре пагинации.
var ErrInvalidCursor = errors.New("invalid pagination cursor")

const cursorSeparator = "_"

// EncodeCursor кодирует пару (время, ID) в base64-курсор для keyset-пагинации.
func EncodeCursor(t time.Time, id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}
	// Наносекунды для точности
	cursorData := fmt.Sprintf("%s%s%s", strconv.FormatInt(t.UnixNano(), 10), cursorSeparator, id.String())
	return base64.URLEncoding.EncodeToString([]byte(cursorData))
}

// DecodeCursor разбирает base64-курсор обратно в пару (время, ID).
// Пустой курсор валиден и означает "с начала".
func DecodeCursor(cursor string) (time.Time, uuid.UUID, error) {
	if cursor == "" {
		return time.Time{}, uuid.Nil, nil
	}

	decodedBytes, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}

	parts := strings.SplitN(string(decodedBytes), cursorSeparator, 2)
	if len(parts) != 2 {
		return time.Time{}, uuid.Nil, fmt.Errorf("%w: expected 2 parts, got %d", ErrInvalidCursor, len(parts))
	}

	timestampNano, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return time.Time{}, uuid.Nil, fmt.Errorf("%w: bad timestamp: %v", ErrInvalidCursor, err)
	}
	id, err := uuid.Parse(parts[1])
	if err != nil {
		return time.Time{}, uuid.Nil, fmt.Errorf("%w: bad uuid: %v", ErrInvalidCursor, err)
	}

	return time.Unix(0, timestampNano).UTC(), id, nil
}
