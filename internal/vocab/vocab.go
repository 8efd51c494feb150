// Package vocab defines the detector's label vocabulary and the mapping from
// labels to subject categories. The mapping is data, not control logic, so the
// detector backend can be swapped without touching filter code.
package vocab

import "strings"

// Category classifies a detector label for subject filtering.
type Category int

const (
	CategoryOther Category = iota
	CategoryBird
	CategoryHuman
	CategoryAnimal
	CategoryIndoor
)

// String returns a human-readable category name.
func (c Category) String() string {
	switch c {
	case CategoryBird:
		return "bird"
	case CategoryHuman:
		return "human"
	case CategoryAnimal:
		return "animal"
	case CategoryIndoor:
		return "indoor"
	default:
		return "other"
	}
}

// Labels is an immutable label vocabulary with category and keyword mappings.
type Labels struct {
	names      []string
	birdClass  int
	categories map[string]Category
	keywords   []string
}

// cocoNames is the class list of the COCO-trained detector backend, in class
// index order.
var cocoNames = []string{
	"person", "bicycle", "car", "motorcycle", "airplane", "bus", "train", "truck", "boat", "traffic light",
	"fire hydrant", "stop sign", "parking meter", "bench", "bird", "cat", "dog", "horse", "sheep", "cow",
	"elephant", "bear", "zebra", "giraffe", "backpack", "umbrella", "handbag", "tie", "suitcase", "frisbee",
	"skis", "snowboard", "sports ball", "kite", "baseball bat", "baseball glove", "skateboard", "surfboard",
	"tennis racket", "bottle", "wine glass", "cup", "fork", "knife", "spoon", "bowl", "banana", "apple",
	"sandwich", "orange", "broccoli", "carrot", "hot dog", "pizza", "donut", "cake", "chair", "couch",
	"potted plant", "bed", "dining table", "toilet", "tv", "laptop", "mouse", "remote", "keyboard", "cell phone",
	"microwave", "oven", "toaster", "sink", "refrigerator", "book", "clock", "vase", "scissors", "teddy bear",
	"hair drier", "toothbrush",
}

// cocoBirdClass is the index of "bird" in the COCO vocabulary.
const cocoBirdClass = 14

// Non-bird animal labels that reject an image outright.
var cocoAnimals = []string{"cat", "dog", "horse", "sheep", "cow", "elephant", "bear", "zebra", "giraffe"}

// Indoor object labels that suggest a non-bird photo.
var cocoIndoor = []string{"bottle", "cup", "bowl", "chair", "couch", "bed", "dining table", "tv", "laptop", "cell phone"}

// birdKeywords matches bird-related label substrings for detectors whose
// vocabulary names species or families rather than a generic bird class.
var birdKeywords = []string{
	"bird", "owl", "eagle", "hawk", "falcon", "sparrow", "robin", "cardinal", "bluejay", "crow",
	"raven", "pigeon", "dove", "duck", "goose", "swan", "chicken", "turkey", "parrot", "finch",
	"warbler", "thrush", "wren", "titmouse", "nuthatch", "woodpecker", "kingfisher", "heron",
	"egret", "crane", "stork", "pelican", "gull", "tern", "albatross", "penguin", "ostrich",
	"emu", "kiwi",
}

// COCO returns the label vocabulary of the COCO-trained detector backend.
func COCO() *Labels {
	return New(cocoNames, cocoBirdClass, cocoAnimals, cocoIndoor, birdKeywords)
}

// New builds a vocabulary from a class name list, the index of the bird class,
// and the label sets used for subject filtering.
func New(names []string, birdClass int, animals, indoor, keywords []string) *Labels {
	categories := make(map[string]Category, len(animals)+len(indoor)+2)
	for _, label := range animals {
		categories[label] = CategoryAnimal
	}
	for _, label := range indoor {
		categories[label] = CategoryIndoor
	}
	categories["person"] = CategoryHuman
	if birdClass >= 0 && birdClass < len(names) {
		categories[names[birdClass]] = CategoryBird
	}

	return &Labels{
		names:      names,
		birdClass:  birdClass,
		categories: categories,
		keywords:   keywords,
	}
}

// Name resolves a class index to its label. Unknown indices return an empty string.
func (l *Labels) Name(classID int) string {
	if classID < 0 || classID >= len(l.names) {
		return ""
	}
	return l.names[classID]
}

// BirdClass returns the class index of the generic bird label.
func (l *Labels) BirdClass() int {
	return l.birdClass
}

// Len returns the number of classes in the vocabulary.
func (l *Labels) Len() int {
	return len(l.names)
}

// Category returns the subject category for a label.
func (l *Labels) Category(label string) Category {
	if c, ok := l.categories[strings.ToLower(label)]; ok {
		return c
	}
	return CategoryOther
}

// MatchesBirdKeyword reports whether a label contains a bird-family keyword.
func (l *Labels) MatchesBirdKeyword(label string) bool {
	lower := strings.ToLower(label)
	for _, keyword := range l.keywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
