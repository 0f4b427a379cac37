package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/myggens/vagtplan/backend/internal/domain"
)

var commonFirstNames = []string{
	"Mikkel", "Sofie", "Emma", "Frederik", "Ida", "Magnus", "Clara", "Oliver",
	"Freja", "Victor", "Laura", "Emil", "Anna", "Oscar", "Josefine", "Mads",
	"Caroline", "Jonas", "Cecilie", "Tobias",
}

var commonLastNames = []string{
	"Jensen", "Nielsen", "Hansen", "Pedersen", "Andersen", "Christensen",
	"Larsen", "Sørensen", "Rasmussen", "Jørgensen", "Petersen", "Madsen",
	"Kristensen", "Olsen", "Thomsen",
}

func GenerateRandomName() string {
	first := commonFirstNames[rand.Intn(len(commonFirstNames))]
	last := commonLastNames[rand.Intn(len(commonLastNames))]
	return first + " " + last
}

// GenerateRandomPhone returns an 8-digit Danish mobile-looking number.
func GenerateRandomPhone() string {
	// mobile numbers start with 2-9
	n := rand.Intn(8) + 2
	phone := fmt.Sprintf("%d", n)
	for i := 0; i < 7; i++ {
		phone += fmt.Sprintf("%d", rand.Intn(10))
	}
	return phone
}

func GenerateRandomPerson() *domain.Person {
	return &domain.Person{
		Name:  GenerateRandomName(),
		Phone: GenerateRandomPhone(),
	}
}

var locations = []string{"Munken", "AA", "Østergade 12", "Havnen", "Kælderen"}
var eventTypes = []string{"Julefrokost", "Teambuilding", "Reception", "Fest", "Konference"}
var customers = []string{"Nordjysk Event", "KontorCompagniet", "Brdr. Holm", "Festudvalget"}

// GenerateRandomShift produces a shift somewhere between 20 days in the past
// and 40 days in the future, so seeded data exercises both the dashboard and
// the history views.
func GenerateRandomShift() *domain.Shift {
	day := rand.Intn(61) - 20
	date := time.Now().AddDate(0, 0, day).Format("2006-01-02")

	customer := customers[rand.Intn(len(customers))]
	eventType := eventTypes[rand.Intn(len(eventTypes))]
	guestCount := int32(rand.Intn(120) + 20)

	state := domain.ShiftActive
	if day < 0 {
		state = domain.ShiftArchived
	}

	return &domain.Shift{
		Date:          date,
		StartTime:     fmt.Sprintf("%02d:%02d", rand.Intn(8)+14, []int{0, 15, 30, 45}[rand.Intn(4)]),
		Location:      locations[rand.Intn(len(locations))],
		Description:   fmt.Sprintf("%s – %d pers.", eventType, guestCount),
		Customer:      &customer,
		EventType:     &eventType,
		GuestCount:    &guestCount,
		RequiredStaff: int32(rand.Intn(5) + 1),
		State:         state,
	}
}
