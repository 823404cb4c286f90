package deck

// Catalog сопоставляет тег категории с упорядоченным списком опций.
type Catalog map[string][]string

// Теги категорий. Порядок в CategoryOrder определяет порядок категорий
// в комбинации и в настройках по умолчанию.
const (
	CategoryPark      = "park"
	CategoryRide      = "ride"
	CategoryResort    = "resort"
	CategorySnack     = "snack"
	CategoryCharacter = "character"
	CategorySeason    = "season"
)

// CategoryOrder - канонический порядок категорий.
var CategoryOrder = []string{
	CategoryPark,
	CategoryRide,
	CategoryResort,
	CategorySnack,
	CategoryCharacter,
	CategorySeason,
}

// DefaultCatalog возвращает статический каталог опций по категориям.
// Списки фиксированы: комбинаторика колоды зависит только от того,
// какие категории включены в настройках партнерства.
func DefaultCatalog() Catalog {
	return Catalog{
		CategoryPark: {
			"Magic Kingdom",
			"EPCOT",
			"Hollywood Studios",
			"Animal Kingdom",
		},
		CategoryRide: {
			"Space Mountain",
			"Big Thunder Mountain Railroad",
			"Haunted Mansion",
			"Pirates of the Caribbean",
			"Jungle Cruise",
			"Peter Pan's Flight",
			"It's a Small World",
			"Seven Dwarfs Mine Train",
			"TRON Lightcycle / Run",
			"Spaceship Earth",
			"Test Track",
			"Soarin' Around the World",
			"Frozen Ever After",
			"Remy's Ratatouille Adventure",
			"Guardians of the Galaxy: Cosmic Rewind",
			"Tower of Terror",
			"Rock 'n' Roller Coaster",
			"Slinky Dog Dash",
			"Rise of the Resistance",
			"Millennium Falcon: Smugglers Run",
			"Expedition Everest",
			"Kilimanjaro Safaris",
			"Avatar Flight of Passage",
			"Na'vi River Journey",
		},
		CategoryResort: {
			"Grand Floridian",
			"Polynesian Village",
			"Contemporary",
			"Wilderness Lodge",
			"Animal Kingdom Lodge",
			"Beach Club",
			"Port Orleans Riverside",
			"Pop Century",
		},
		CategorySnack: {
			"Dole Whip",
			"Mickey Premium Bar",
			"Churro",
			"Turkey Leg",
			"Mickey Pretzel",
			"LeFou's Brew",
			"School Bread",
			"Grey Stuff",
			"Citrus Swirl",
			"Cheshire Cat Tail",
		},
		CategoryCharacter: {
			"Mickey Mouse",
			"Minnie Mouse",
			"Donald Duck",
			"Goofy",
			"Stitch",
			"Figment",
			"Winnie the Pooh",
			"Tinker Bell",
			"Chip and Dale",
			"Olaf",
			"Baymax",
			"Moana",
		},
		CategorySeason: {
			"Flower and Garden Festival",
			"Food and Wine Festival",
			"Halloween Party",
			"Christmas Party",
		},
	}
}
