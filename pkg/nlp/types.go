package nlp

import "PersonTracking/internal/entity"

type IPromptExtractor interface {
	Extract(prompt string) entity.SearchCriteria
}

// KeywordTable maps a canonical term to the words that select it.
type KeywordTable map[string][]string

var colorKeywords = KeywordTable{
	"red":    {"red", "crimson", "maroon", "burgundy", "scarlet"},
	"orange": {"orange"},
	"yellow": {"yellow", "gold", "golden", "mustard"},
	"green":  {"green", "olive", "lime"},
	"blue":   {"blue", "navy", "denim", "azure"},
	"purple": {"purple", "violet", "lavender"},
	"pink":   {"pink", "magenta"},
	"brown":  {"brown", "chocolate"},
	"black":  {"black"},
	"white":  {"white", "ivory"},
	"gray":   {"gray", "grey", "silver", "charcoal"},
	"beige":  {"beige", "tan", "khaki", "cream"},
}

var clothingKeywords = KeywordTable{
	"shirt":   {"shirt", "t-shirt", "tshirt", "tee", "blouse", "polo", "short sleeve", "short sleeves", "short sleeved"},
	"jacket":  {"jacket", "coat", "blazer", "parka", "windbreaker"},
	"sweater": {"sweater", "hoodie", "jumper", "sweatshirt", "cardigan"},
	"pants":   {"pants", "trousers", "jeans", "slacks", "leggings"},
	"shorts":  {"shorts"},
	"skirt":   {"skirt", "short skirt", "miniskirt"},
	"dress":   {"dress", "gown", "short dress"},
	"suit":    {"suit"},
	"tie":     {"tie", "necktie"},
	"vest":    {"vest"},
	"hat":     {"hat", "cap", "beanie"},
	"scarf":   {"scarf"},
	"uniform": {"uniform"},
	"shoes":   {"shoes", "sneakers", "boots", "trainers"},
}

var accessoryKeywords = KeywordTable{
	"backpack": {"backpack", "rucksack"},
	"handbag":  {"handbag", "purse", "tote"},
	"bag":      {"bag", "shoulder bag"},
	"suitcase": {"suitcase", "luggage", "trolley"},
	"umbrella": {"umbrella"},
	"glasses":  {"glasses", "sunglasses", "spectacles", "eyeglasses"},
	"phone":    {"phone", "cellphone", "smartphone", "cell phone", "mobile phone"},
	"laptop":   {"laptop"},
}

var physicalKeywords = KeywordTable{
	entity.HeightTall:  {"tall"},
	entity.HeightShort: {"short", "petite"},
	entity.BuildSlim:   {"slim", "thin", "skinny", "slender", "lean"},
	entity.BuildHeavy:  {"heavy", "heavyset", "stocky", "chubby", "overweight", "big build", "large build"},
	entity.BuildMedium: {"medium build", "average build", "medium height", "average height"},
	entity.HairLong:    {"long hair", "long haired"},
	entity.HairShort:   {"short hair", "short haired", "bald"},
}

// hairColors maps hair color words to the palette names the analyzer reports.
var hairColors = map[string]string{
	"black":    "black",
	"dark":     "black",
	"brown":    "brown",
	"brunette": "brown",
	"blonde":   "beige",
	"blond":    "beige",
	"red":      "red",
	"ginger":   "orange",
	"gray":     "gray",
	"grey":     "gray",
	"white":    "white",
}
