package seeder

func Defaults() []Seeder {
	return []Seeder{
		Skills(),
		Industries(),
		LocationsSeeder{Areas: DefaultAreas()},
	}
}
