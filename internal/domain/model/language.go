package model

type Language string

const (
	LanguageC       Language = "C"
	LanguageCpp     Language = "Cpp"
	LanguageJava    Language = "Java"
	LanguagePython3 Language = "Python3"
)
