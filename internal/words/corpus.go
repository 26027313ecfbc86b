package words

// corpus is the fixed pool of target words. Words were chosen for
// having usably large rhyme sets in the provider's index.
var corpus = []string{
	"cat", "light", "day", "blue", "star", "rain", "bell", "stone",
	"fire", "tree", "gold", "song", "moon", "road", "dream", "wave",
	"king", "night", "sand", "wind", "cake", "chair", "door", "string",
	"train", "cloud", "bright", "spring", "round", "snail", "glow", "seat",
	"mice", "tale", "line", "bone", "coat", "dust", "leaf", "plane",
	"shore", "time", "wall", "year", "bear", "clock", "drum", "flame",
	"grape", "hill", "ice", "jar", "kite", "lake", "mask", "nest",
	"oak", "pail", "queen", "rose", "sail", "tide", "urn", "vine",
	"well", "yarn", "zone", "bloom", "crane", "dove", "fern", "gate",
	"hound", "ink", "jade", "knee", "lime", "mist", "note", "pearl",
	"quill", "reed", "slate", "thorn", "veil", "wren", "ash", "brook",
	"chime", "dusk", "ember", "frost", "grove", "hearth", "isle", "lark",
	"moss", "nook", "opal", "pine", "quartz", "ridge", "spark", "trail",
	"vale", "wick", "birch", "cove", "dew", "elm", "fawn", "glen",
	"haze", "iris", "kelp", "loam", "marsh", "knoll", "peak", "quay",
}
