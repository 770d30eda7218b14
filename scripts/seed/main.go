// Command seed populates a local database with demo tutors, subjects,
// offerings and student preferences for manual testing of the discovery
// endpoints.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

var (
	dsn    = flag.String("dsn", "host=localhost port=5432 user=postgres password=postgres dbname=ostazy sslmode=disable", "postgres DSN")
	tutors = flag.Int("tutors", 40, "number of tutors to create")
	seed   = flag.Int64("seed", 1, "rng seed for reproducible data")
)

var (
	governates = map[string][]string{
		"Cairo":      {"Nasr City", "Maadi", "Heliopolis"},
		"Giza":       {"Dokki", "Mohandessin", "6th of October"},
		"Alexandria": {"Smouha", "Stanley"},
		"Aswan":      {"Sahary"},
	}
	firstNames = []string{"Ahmed", "Mona", "Tarek", "Sara", "Omar", "Laila", "Hassan", "Nour", "Khaled", "Dina"}
	lastNames  = []string{"Hassan", "Ibrahim", "Mostafa", "Farouk", "Saleh", "Adel", "Nabil", "Fawzy"}
	grades     = []string{"Primary 6", "Preparatory 3", "Secondary 1", "Secondary 2", "Secondary 3"}
	sectors    = []string{"scientific", "literary"}
	systems    = []string{"national", "international", "azhari"}
	languages  = []string{"Arabic", "English"}
	subjects   = []string{"Math", "Physics", "Chemistry", "Biology", "Arabic", "English", "History"}
)

func main() {
	flag.Parse()
	rng := rand.New(rand.NewSource(*seed))

	db, err := sqlx.Connect("postgres", *dsn)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer db.Close()

	subjectIDs, err := seedSubjects(db, rng)
	if err != nil {
		log.Fatalf("seed subjects: %v", err)
	}

	if err := seedTutors(db, rng, subjectIDs); err != nil {
		log.Fatalf("seed tutors: %v", err)
	}

	if err := seedStudents(db, rng); err != nil {
		log.Fatalf("seed students: %v", err)
	}

	fmt.Printf("seeded %d tutors across %d subjects\n", *tutors, len(subjectIDs))
}

func seedSubjects(db *sqlx.DB, rng *rand.Rand) ([]string, error) {
	ids := make([]string, 0, len(subjects)*len(grades))
	for _, name := range subjects {
		for _, grade := range grades {
			id := uuid.NewString()
			_, err := db.Exec(`INSERT INTO subjects (id, name, grade, sector, education_system, language, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())`,
				id, name, grade, pick(rng, sectors), pick(rng, systems), pick(rng, languages))
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func seedTutors(db *sqlx.DB, rng *rand.Rand, subjectIDs []string) error {
	govNames := make([]string, 0, len(governates))
	for name := range governates {
		govNames = append(govNames, name)
	}

	for i := 0; i < *tutors; i++ {
		tutorID := uuid.NewString()
		governate := pick(rng, govNames)
		district := pick(rng, governates[governate])
		fullName := pick(rng, firstNames) + " " + pick(rng, lastNames)

		var rating interface{}
		if rng.Float64() > 0.2 {
			rating = 2.5 + rng.Float64()*2.5
		}

		_, err := db.Exec(`INSERT INTO tutors (id, full_name, bio, governate, district, years_experience, rating, top_rated, active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE, NOW(), NOW())`,
			tutorID, fullName, fmt.Sprintf("Experienced %s tutor in %s.", pick(rng, subjects), district),
			governate, district, 1+rng.Intn(20), rating, rng.Float64() > 0.9)
		if err != nil {
			return err
		}

		// Most tutors teach one to three subjects; a few have none yet.
		for j := 0; j < rng.Intn(4); j++ {
			private := float64(200 + rng.Intn(13)*50)
			var offeringRating interface{}
			if rng.Float64() > 0.3 {
				offeringRating = 2.0 + rng.Float64()*3.0
			}
			_, err := db.Exec(`INSERT INTO subject_offerings (id, tutor_id, subject_id, private_price, group_price, rating, active, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, TRUE, NOW(), NOW())`,
				uuid.NewString(), tutorID, pick(rng, subjectIDs), private, private*0.4, offeringRating)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func seedStudents(db *sqlx.DB, rng *rand.Rand) error {
	govNames := make([]string, 0, len(governates))
	for name := range governates {
		govNames = append(govNames, name)
	}

	for i := 0; i < 10; i++ {
		_, err := db.Exec(`INSERT INTO student_preferences (student_id, education_system, grade, sector, governate)
			VALUES ($1, $2, $3, $4, $5)`,
			uuid.NewString(), pick(rng, systems), pick(rng, grades), pick(rng, sectors), pick(rng, govNames))
		if err != nil {
			return err
		}
	}
	return nil
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.Intn(len(values))]
}
