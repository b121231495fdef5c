// Package i18n holds the user-facing strings in every lesson language.
package i18n

import "github.com/ziadkadry99/edugen/internal/content"

// Key names a translatable message.
type Key string

const (
	StatusIdle      Key = "status_idle"
	StatusText      Key = "status_text"
	StatusQuiz      Key = "status_quiz"
	StatusSlides    Key = "status_slides"
	StatusImages    Key = "status_images"
	StatusAudio     Key = "status_audio"
	StatusComplete  Key = "status_complete"
	StatusError     Key = "status_error"
	HistoryLoaded   Key = "history_saved"
	AudioFailed     Key = "audio_failed"
	UserNotFound    Key = "user_not_found"
	EmailTaken      Key = "email_taken"
	StorageFull     Key = "storage_full"
	InvalidSignup   Key = "invalid_signup"
	Welcome         Key = "welcome"
	Busy            Key = "busy"
	BlankTopic      Key = "blank_topic"
	TabText         Key = "tab_text"
	TabVideo        Key = "tab_video"
	TabQuiz         Key = "tab_quiz"
	HeadExplanation Key = "head_explanation"
	HeadSlides      Key = "head_slides"
	HeadQuiz        Key = "head_quiz"
	HeadAnswer      Key = "head_answer"
	NoNarration     Key = "no_narration"
	RetryAudio      Key = "retry_audio"
	QuizScore       Key = "quiz_score"
)

var catalog = map[content.Language]map[Key]string{
	content.LanguageKazakh: {
		StatusIdle:      "Тақырыпты енгізіңіз",
		StatusText:      "Түсіндірме жазылуда...",
		StatusQuiz:      "Тест сұрақтары құрастырылуда...",
		StatusSlides:    "Слайдтар дайындалуда...",
		StatusImages:    "Суреттер салынуда...",
		StatusAudio:     "Дыбыстық түсіндірме жазылуда...",
		StatusComplete:  "Сабақ дайын!",
		StatusError:     "Қате орын алды. Қайталап көріңіз.",
		HistoryLoaded:   "Тарихтан жүктелді",
		AudioFailed:     "Дыбысты жасау мүмкін болмады",
		UserNotFound:    "Бұл поштамен пайдаланушы табылмады",
		EmailTaken:      "Бұл пошта бұрыннан тіркелген",
		StorageFull:     "Жергілікті жад толы",
		InvalidSignup:   "Аты мен поштаны дұрыс енгізіңіз",
		Welcome:         "Қош келдіңіз, %s!",
		Busy:            "Сабақ әлі жасалуда",
		BlankTopic:      "Тақырып бос болмауы керек",
		TabText:         "Мәтін",
		TabVideo:        "Бейне",
		TabQuiz:         "Тест",
		HeadExplanation: "Түсіндірме",
		HeadSlides:      "Слайдтар",
		HeadQuiz:        "Тест тапсырмалары",
		HeadAnswer:      "Дұрыс жауап",
		NoNarration:     "Дыбыстық нұсқа жоқ",
		RetryAudio:      "Дыбысты қайта жасау",
		QuizScore:       "Нәтиже: %d / %d",
	},
	content.LanguageRussian: {
		StatusIdle:      "Введите тему",
		StatusText:      "Пишем объяснение...",
		StatusQuiz:      "Составляем тест...",
		StatusSlides:    "Готовим слайды...",
		StatusImages:    "Рисуем иллюстрации...",
		StatusAudio:     "Записываем озвучку...",
		StatusComplete:  "Урок готов!",
		StatusError:     "Произошла ошибка. Попробуйте ещё раз.",
		HistoryLoaded:   "Загружено из истории",
		AudioFailed:     "Не удалось создать озвучку",
		UserNotFound:    "Пользователь с такой почтой не найден",
		EmailTaken:      "Эта почта уже зарегистрирована",
		StorageFull:     "Локальное хранилище заполнено",
		InvalidSignup:   "Введите корректные имя и почту",
		Welcome:         "Добро пожаловать, %s!",
		Busy:            "Урок ещё создаётся",
		BlankTopic:      "Тема не может быть пустой",
		TabText:         "Текст",
		TabVideo:        "Видео",
		TabQuiz:         "Тест",
		HeadExplanation: "Объяснение",
		HeadSlides:      "Слайды",
		HeadQuiz:        "Тест",
		HeadAnswer:      "Правильный ответ",
		NoNarration:     "Озвучка недоступна",
		RetryAudio:      "Создать озвучку заново",
		QuizScore:       "Результат: %d из %d",
	},
	content.LanguageEnglish: {
		StatusIdle:      "Enter a topic",
		StatusText:      "Writing the explanation...",
		StatusQuiz:      "Building the quiz...",
		StatusSlides:    "Preparing slides...",
		StatusImages:    "Drawing illustrations...",
		StatusAudio:     "Recording narration...",
		StatusComplete:  "Your lesson is ready!",
		StatusError:     "Something went wrong. Please try again.",
		HistoryLoaded:   "Loaded from history",
		AudioFailed:     "Narration could not be generated",
		UserNotFound:    "No user with this email",
		EmailTaken:      "This email is already registered",
		StorageFull:     "Local storage is full",
		InvalidSignup:   "Enter a valid name and email",
		Welcome:         "Welcome, %s!",
		Busy:            "A lesson is still being generated",
		BlankTopic:      "Topic must not be empty",
		TabText:         "Text",
		TabVideo:        "Video",
		TabQuiz:         "Quiz",
		HeadExplanation: "Explanation",
		HeadSlides:      "Slides",
		HeadQuiz:        "Quiz",
		HeadAnswer:      "Correct Answer",
		NoNarration:     "Narration unavailable",
		RetryAudio:      "Regenerate narration",
		QuizScore:       "Score: %d / %d",
	},
}

// T returns the message for key in lang, falling back to English and then
// to the key itself.
func T(lang content.Language, key Key) string {
	if msgs, ok := catalog[lang]; ok {
		if s, ok := msgs[key]; ok {
			return s
		}
	}
	if s, ok := catalog[content.LanguageEnglish][key]; ok {
		return s
	}
	return string(key)
}

// Bundle returns every message for lang, keyed by name, for the dashboard.
func Bundle(lang content.Language) map[string]string {
	out := make(map[string]string, len(catalog[content.LanguageEnglish]))
	for key := range catalog[content.LanguageEnglish] {
		out[string(key)] = T(lang, key)
	}
	return out
}
