package validation

import "strings"

// PlayerRegistration is the body of POST /auth/register/player.
type PlayerRegistration struct {
	FirstName         string         `json:"firstName"`
	LastName          string         `json:"lastName"`
	Email             string         `json:"email"`
	Password          string         `json:"password"`
	Sex               string         `json:"sex"`
	Sport             string         `json:"sport"`
	Position          string         `json:"position"`
	GPA               OptionalNumber `json:"gpa"`
	Country           string         `json:"country"`
	State             string         `json:"state"`
	Region            string         `json:"region"`
	ScholarshipAmount OptionalNumber `json:"scholarshipAmount"`
	TestScores        string         `json:"testScores"`
}

// CoachRegistration is the body of POST /auth/register/coach.
type CoachRegistration struct {
	FirstName        string   `json:"firstName"`
	LastName         string   `json:"lastName"`
	Email            string   `json:"email"`
	Password         string   `json:"password"`
	CoachingCategory string   `json:"coachingCategory"`
	Sports           []string `json:"sports"`
	University       string   `json:"university"`
	Country          string   `json:"country"`
}

// IsUSA reports whether country names the one country that uses states.
func IsUSA(country string) bool {
	return strings.ToLower(strings.TrimSpace(country)) == "usa"
}

// ValidatePlayer checks a player registration.
func ValidatePlayer(in PlayerRegistration) Result {
	var c collector

	c.field("firstName",
		required(in.FirstName, "First name is required"),
		satisfies(strings.TrimSpace(in.FirstName), "min=2,max=50", "First name must be between 2 and 50 characters"),
	)
	c.field("lastName",
		required(in.LastName, "Last name is required"),
		satisfies(strings.TrimSpace(in.LastName), "min=2,max=50", "Last name must be between 2 and 50 characters"),
	)
	c.field("email", emailRules(in.Email)...)
	c.field("password", passwordRules(in.Password)...)
	c.field("sex",
		required(in.Sex, "Sex is required"),
		satisfies(strings.ToLower(strings.TrimSpace(in.Sex)), "oneof=male female", "Sex must be male or female"),
	)
	c.field("sport", required(in.Sport, "Sport is required"))
	c.field("position",
		required(in.Position, "Position is required"),
		satisfies(strings.TrimSpace(in.Position), "min=2", "Position must be at least 2 characters"),
	)
	c.field("gpa",
		when(func() bool { return in.GPA.Set }, "GPA is required"),
		when(func() bool { return in.GPA.Valid && check(in.GPA.Value, "gte=0,lte=4") }, "GPA must be a number between 0.0 and 4.0"),
	)
	c.field("country", required(in.Country, "Country is required"))
	if IsUSA(in.Country) {
		c.field("state", required(in.State, "State is required for USA"))
	} else {
		c.field("region", required(in.Region, "Region is required"))
	}
	if in.ScholarshipAmount.Set {
		c.field("scholarshipAmount",
			when(func() bool {
				return in.ScholarshipAmount.Valid && check(in.ScholarshipAmount.Value, "gte=0")
			}, "Scholarship amount must be a non-negative number"),
		)
	}

	return c.result()
}

// ValidateCoach checks a coach registration.
func ValidateCoach(in CoachRegistration) Result {
	var c collector

	c.field("firstName",
		required(in.FirstName, "First name is required"),
		satisfies(strings.TrimSpace(in.FirstName), "min=2,max=100", "First name must be between 2 and 100 characters"),
	)
	c.field("lastName",
		required(in.LastName, "Last name is required"),
		satisfies(strings.TrimSpace(in.LastName), "min=2,max=100", "Last name must be between 2 and 100 characters"),
	)
	c.field("email", emailRules(in.Email)...)
	c.field("password", passwordRules(in.Password)...)
	c.field("coachingCategory", required(in.CoachingCategory, "Coaching category is required"))

	sports := make([]string, len(in.Sports))
	for i, s := range in.Sports {
		sports[i] = strings.TrimSpace(s)
	}
	c.field("sports",
		satisfies(sports, "min=1", "At least one sport is required"),
		satisfies(sports, "dive,required", "Sports must not contain empty values"),
	)
	c.field("university",
		required(in.University, "University is required"),
		satisfies(strings.TrimSpace(in.University), "min=2,max=255", "University must be between 2 and 255 characters"),
	)
	c.field("country", required(in.Country, "Country is required"))

	return c.result()
}

const passwordComplexityMessage = "Password must be at least 8 characters and include an uppercase letter, " +
	"a lowercase letter, a number, and a special character"

func passwordRules(pw string) []rule {
	return []rule{
		func() string {
			if pw == "" {
				return "Password is required"
			}
			return ""
		},
		when(func() bool { return IsStrongPassword(pw) }, passwordComplexityMessage),
	}
}
