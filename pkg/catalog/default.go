// pkg/catalog/default.go
package catalog

// Default returns the built-in Mergington High School catalog. Each call
// returns a fresh copy.
func Default() *Catalog {
	return &Catalog{
		Version: "1.0.0",
		Activities: []Activity{
			{
				Name:            "Chess Club",
				Description:     "Learn strategies and compete in chess tournaments",
				Schedule:        "Fridays, 3:30 PM - 5:00 PM",
				MaxParticipants: 12,
				Participants:    []string{"michael@mergington.edu", "daniel@mergington.edu"},
			},
			{
				Name:            "Programming Class",
				Description:     "Learn programming fundamentals and build software projects",
				Schedule:        "Tuesdays and Thursdays, 3:30 PM - 4:30 PM",
				MaxParticipants: 20,
				Participants:    []string{"emma@mergington.edu", "sophia@mergington.edu"},
			},
			{
				Name:            "Gym Class",
				Description:     "Physical education and sports activities",
				Schedule:        "Mondays, Wednesdays, Fridays, 2:00 PM - 3:00 PM",
				MaxParticipants: 30,
				Participants:    []string{"john@mergington.edu", "olivia@mergington.edu"},
			},
			{
				Name:            "Tennis Club",
				Description:     "Practice tennis skills and play friendly matches",
				Schedule:        "Tuesdays and Thursdays, 4:00 PM - 5:30 PM",
				MaxParticipants: 10,
				Participants:    []string{"liam@mergington.edu"},
			},
			{
				Name:            "Basketball Team",
				Description:     "Train and compete in inter-school basketball games",
				Schedule:        "Mondays and Wednesdays, 4:00 PM - 6:00 PM",
				MaxParticipants: 15,
				Participants:    []string{"james@mergington.edu"},
			},
			{
				Name:            "Drama Club",
				Description:     "Act, direct, and produce school plays and performances",
				Schedule:        "Wednesdays, 3:30 PM - 5:30 PM",
				MaxParticipants: 20,
				Participants:    []string{"noah@mergington.edu", "ava@mergington.edu"},
			},
			{
				Name:            "Art Studio",
				Description:     "Explore painting, drawing, and sculpture",
				Schedule:        "Thursdays, 3:30 PM - 5:00 PM",
				MaxParticipants: 18,
				Participants:    []string{"mia@mergington.edu"},
			},
			{
				Name:            "Science Club",
				Description:     "Conduct experiments and prepare for science fairs",
				Schedule:        "Fridays, 3:00 PM - 4:30 PM",
				MaxParticipants: 16,
				Participants:    []string{"lucas@mergington.edu", "isabella@mergington.edu"},
			},
			{
				Name:            "Debate Team",
				Description:     "Develop public speaking and argumentation skills",
				Schedule:        "Tuesdays, 3:30 PM - 5:00 PM",
				MaxParticipants: 12,
				Participants:    []string{"ethan@mergington.edu"},
			},
		},
	}
}
