package domain

// ExerciseCategory classifies exercises by the skill they train.
type ExerciseCategory string

const (
	CategoryListenWrite         ExerciseCategory = "LISTEN_WRITE"
	CategoryWordFromDescription ExerciseCategory = "WORD_FROM_DESCRIPTION"
	CategorySynonymsAntonyms    ExerciseCategory = "SYNONYMS_ANTONYMS"
	CategoryMissingLetter       ExerciseCategory = "MISSING_LETTER"
	CategoryWrongLetter         ExerciseCategory = "WRONG_LETTER"
	CategoryBuildWord           ExerciseCategory = "BUILD_WORD"
	CategoryNumberToWord        ExerciseCategory = "NUMBER_TO_WORD"
	CategoryPhrases             ExerciseCategory = "PHRASES"
	CategorySpelling            ExerciseCategory = "SPELLING"
	CategoryPunctuation         ExerciseCategory = "PUNCTUATION"
	CategoryVocabulary          ExerciseCategory = "VOCABULARY"
	CategoryGrammar             ExerciseCategory = "GRAMMAR"
	CategoryBuildSentence       ExerciseCategory = "BUILD_SENTENCE"
)

func (c ExerciseCategory) String() string { return string(c) }

func (c ExerciseCategory) IsValid() bool {
	switch c {
	case CategoryListenWrite, CategoryWordFromDescription, CategorySynonymsAntonyms,
		CategoryMissingLetter, CategoryWrongLetter, CategoryBuildWord,
		CategoryNumberToWord, CategoryPhrases, CategorySpelling,
		CategoryPunctuation, CategoryVocabulary, CategoryGrammar, CategoryBuildSentence:
		return true
	}
	return false
}

// UnlockState is the state-machine position of a class for a given user.
type UnlockState string

const (
	UnlockStateLocked    UnlockState = "LOCKED"
	UnlockStateUnlocked  UnlockState = "UNLOCKED"
	UnlockStateCompleted UnlockState = "COMPLETED"
)

func (s UnlockState) String() string { return string(s) }

func (s UnlockState) IsValid() bool {
	switch s {
	case UnlockStateLocked, UnlockStateUnlocked, UnlockStateCompleted:
		return true
	}
	return false
}

// ChallengeType identifies the kind of daily challenge.
type ChallengeType string

const (
	ChallengeCompleteExercises ChallengeType = "COMPLETE_N_EXERCISES"
	ChallengePerfectAccuracy   ChallengeType = "PERFECT_ACCURACY"
)

func (t ChallengeType) String() string { return string(t) }

func (t ChallengeType) IsValid() bool {
	switch t {
	case ChallengeCompleteExercises, ChallengePerfectAccuracy:
		return true
	}
	return false
}

// UserRole represents the authorization level of a user.
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

func (r UserRole) String() string { return string(r) }

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleUser, UserRoleAdmin:
		return true
	}
	return false
}

func (r UserRole) IsAdmin() bool {
	return r == UserRoleAdmin
}
