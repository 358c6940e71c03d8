package profile

func binary() *Profile {
	return &Profile{
		Name: "binary",
		LabelMap: map[string]int{
			"positive": 1,
			"negative": 0,
		},
		ClassNames: [2]string{"negative", "positive"},
	}
}
