package deck

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"daydreams-server/internal/models"
)

var (
	// ErrNoCategoriesEnabled возвращается, когда включенный набор категорий пуст.
	// Вырожденную колоду из одной пустой комбинации не строим.
	ErrNoCategoriesEnabled = errors.New("no categories enabled")
	// ErrUnknownCategory возвращается, когда тег категории отсутствует в каталоге.
	ErrUnknownCategory = errors.New("unknown category")
)

// State - персистентное состояние колоды партнерства. Перестановка не
// хранится целиком: она детерминированно восстанавливается из Seed,
// поэтому в Redis лежит только сид и курсор.
type State struct {
	Signature string `json:"signature"` // Сигнатура включенного набора; при смене настроек колода пересобирается
	Seed      int64  `json:"seed"`
	Cursor    int    `json:"cursor"`
}

// Builder строит комбинации промптов как cross-product списков опций
// включенных категорий. Чистый и детерминированный при заданных входах.
type Builder struct {
	catalog Catalog
}

// NewBuilder создает Builder над каталогом опций.
func NewBuilder(catalog Catalog) *Builder {
	return &Builder{catalog: catalog}
}

// Size возвращает размер колоды: произведение длин списков опций
// всех включенных категорий.
func (b *Builder) Size(enabled []string) (int, error) {
	if len(enabled) == 0 {
		return 0, ErrNoCategoriesEnabled
	}
	size := 1
	for _, tag := range enabled {
		options, ok := b.catalog[tag]
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrUnknownCategory, tag)
		}
		size *= len(options)
	}
	return size, nil
}

// Combination декодирует порядковый номер комбинации в выбор опций.
// Номер трактуется как число в смешанной системе счисления, где разряд
// каждой категории имеет основание, равное длине ее списка опций. Так
// cross-product не материализуется целиком.
func (b *Builder) Combination(enabled []string, index int) (models.PromptSelections, error) {
	size, err := b.Size(enabled)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= size {
		return nil, fmt.Errorf("combination index %d out of range [0,%d)", index, size)
	}

	selections := make(models.PromptSelections, len(enabled))
	rem := index
	for i := len(enabled) - 1; i >= 0; i-- {
		tag := enabled[i]
		options := b.catalog[tag]
		selections[tag] = options[rem%len(options)]
		rem /= len(options)
	}
	return selections, nil
}

// Signature возвращает сигнатуру включенного набора категорий. Порядок
// значим: набор упорядочен настройками партнерства.
func (b *Builder) Signature(enabled []string) string {
	return strings.Join(enabled, "|")
}

// NewState создает свежеперетасованную колоду для набора категорий.
func (b *Builder) NewState(enabled []string, seed int64) (*State, error) {
	if _, err := b.Size(enabled); err != nil {
		return nil, err
	}
	return &State{
		Signature: b.Signature(enabled),
		Seed:      seed,
		Cursor:    0,
	}, nil
}

// Draw возвращает следующую невиданную комбинацию и продвигает курсор.
// Когда колода исчерпана, она перетасовывается (новый сид из reseed)
// и курсор сбрасывается, после чего каждая комбинация снова встретится
// ровно один раз до следующего повтора.
func (b *Builder) Draw(state *State, enabled []string, reseed func() int64) (models.PromptSelections, error) {
	size, err := b.Size(enabled)
	if err != nil {
		return nil, err
	}

	if state.Signature != b.Signature(enabled) || state.Cursor >= size {
		state.Signature = b.Signature(enabled)
		state.Seed = reseed()
		state.Cursor = 0
	}

	perm := rand.New(rand.NewSource(state.Seed)).Perm(size)
	selections, err := b.Combination(enabled, perm[state.Cursor])
	if err != nil {
		return nil, err
	}
	state.Cursor++
	return selections, nil
}
