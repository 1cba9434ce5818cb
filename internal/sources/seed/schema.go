package seed

// Entry is one bookmark in a seed file.
//
//	- title: MDN
//	  url: https://developer.mozilla.org
//	  description: The only place to find web documentation
//	  rating: 5
type Entry struct {
	Title       string `yaml:"title"`
	URL         string `yaml:"url"`
	Description string `yaml:"description"`
	Rating      any    `yaml:"rating"`
}

// File is the root structure of a seed file
type File []Entry
