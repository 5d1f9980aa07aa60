package domain

// NGO is a read-only directory entry.
type NGO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ApprovedNGOs is the static list of organizations shown in the directory.
var ApprovedNGOs = []NGO{
	{ID: "ngo1", Name: "Asha Foundation", Description: "Supporting women survivors of violence with shelter and legal aid."},
	{ID: "ngo2", Name: "Sakhi Trust", Description: "Empowering women through skill development and counseling."},
	{ID: "ngo3", Name: "Jagriti NGO", Description: "Focusing on education and health for underprivileged women and girls."},
	{ID: "ngo4", Name: "Nari Shakti Kendra", Description: "Provides legal assistance and support groups."},
	{ID: "ngo5", Name: "Mahila Vikas Manch", Description: "Works on economic empowerment and vocational training."},
	{ID: "ngo6", Name: "Suraksha Women Center", Description: "Offers emergency shelter and crisis intervention."},
}

// StoryTags are the labels offered when sharing a story.
var StoryTags = []string{
	"Workplace Harassment",
	"Domestic Violence",
	"Street Harassment",
	"Cyberbullying",
	"Sexual Harassment",
	"Discrimination",
	"Recovery",
	"Support",
	"Healing",
}

// Slogans rotate on the home page.
var Slogans = []string{
	"Breaking the silence, one story at a time.",
	"Your voice matters. Your story matters.",
	"Together we stand, united we heal.",
	"Empowering voices, creating change.",
	"You are not alone in this journey.",
	"Strength in sharing, power in unity.",
}
