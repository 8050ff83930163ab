package classify

// technicalKeywords drive the deterministic heuristic. Any case-insensitive
// match marks the query technical; matched keywords become its topic tags.
var technicalKeywords = []string{
	"pydantic",
	"python",
	"golang",
	"javascript",
	"typescript",
	"rust",
	"java",
	"sql",
	"docker",
	"kubernetes",
	"fastapi",
	"django",
	"react",
	"code",
	"function",
	"class",
	"import",
	"compile",
	"debug",
	"library",
	"framework",
	"api",
	"json",
	"regex",
	"algorithm",
	"database",
}
