package profile

func center() *Profile {
	return &Profile{
		Name: "center",
		LabelMap: map[string]int{
			"center":     1,
			"not_center": 0,
		},
		ClassNames: [2]string{"not_center", "center"},
	}
}
