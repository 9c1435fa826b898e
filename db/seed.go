package db

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/KryptoMuratLive/kryptomuratv4/db/models"
)

// SeedChapters publishes the opening "Jagd auf den Bitcoin" chapters if the
// chapters collection is empty. Safe to call on every startup.
func SeedChapters() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	collection := GetCollection("chapters")
	count, err := collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	chapters := defaultChapters()
	docs := make([]interface{}, 0, len(chapters))
	for i := range chapters {
		chapters[i].CreatedAt = now
		docs = append(docs, chapters[i])
	}
	if _, err := collection.InsertMany(ctx, docs); err != nil {
		return err
	}
	log.Printf("[SEED] published %d story chapters", len(chapters))
	return nil
}

func defaultChapters() []models.Chapter {
	return []models.Chapter{
		{
			ID:            "chapter_1",
			Title:         "Die mysteriöse Nachricht",
			Description:   "Murat erhält einen anonymen Hinweis auf den verschollenen Bitcoin-Schatz.",
			Content:       "Mitten in der Nacht vibriert Murats Handy. Eine unbekannte Nummer: \"Der Schatz von Herford ist real. 100 Bitcoin, versteckt vor Jahren. Der erste Hinweis liegt in der Radewiger Kirche. Komm allein.\" Murat starrt auf den Bildschirm. Ist das eine Falle der Jäger – oder die Chance seines Lebens?",
			ChapterNumber: 1,
			ImageURL:      "https://images.kryptomurat.live/chapters/nachricht.jpg",
			Choices: []models.Choice{
				{
					Text:             "Sofort zur Radewiger Kirche fahren",
					Consequence:      "Dein Mut wird belohnt - du findest den ersten Hinweis!",
					ReputationChange: 2,
					NextChapter:      "chapter_2",
				},
				{
					Text:             "Zuerst Nachforschungen anstellen",
					Consequence:      "Vorsicht zahlt sich aus - du sammelst wichtige Informationen.",
					ReputationChange: 1,
					NextChapter:      "chapter_2",
				},
				{
					Text:             "Die Nachricht ignorieren",
					Consequence:      "Später bereust du diese Entscheidung...",
					ReputationChange: -1,
					NextChapter:      "chapter_2",
				},
			},
			NextChapters: []string{"chapter_2"},
		},
		{
			ID:            "chapter_2",
			Title:         "Die Radewiger Kirche",
			Description:   "In der alten Kirche wartet der erste Hinweis - und die erste Begegnung mit den Jägern.",
			Content:       "Die Kirchentür steht einen Spalt offen. Im Kerzenschein entdeckt Murat einen QR-Code, eingeritzt in die Rückseite einer Bank. Doch draußen quietschen Reifen: ein schwarzer SUV. Die Jäger haben die Nachricht ebenfalls abgefangen.",
			ChapterNumber: 2,
			ImageURL:      "https://images.kryptomurat.live/chapters/kirche.jpg",
			Choices: []models.Choice{
				{
					Text:             "Den QR-Code scannen und durch den Hinterausgang fliehen",
					ReputationChange: 3,
					NextChapter:      "chapter_3",
				},
				{
					Text:             "Sich verstecken und die Jäger belauschen",
					ReputationChange: 1,
					NextChapter:      "chapter_3",
					StoryPath:        "shadow",
				},
				{
					Text:             "Die Jäger konfrontieren",
					ReputationChange: -2,
					NextChapter:      "chapter_3",
				},
			},
			NextChapters: []string{"chapter_3"},
			UnlockRequirements: models.UnlockRequirements{
				CompletedChapters: []string{"chapter_1"},
			},
		},
		{
			ID:            "chapter_3",
			Title:         "Das Geheimnis des Hackers",
			Description:   "Der QR-Code führt zu einem Hacker, der mehr über den Schatz weiß, als ihm lieb ist.",
			Content:       "Der Code entschlüsselt sich zu einer Adresse im Herforder Industriegebiet. Dort, zwischen Serverschränken und Energy-Drink-Dosen, sitzt \"Cipher\" - ein Hacker, der den ursprünglichen Wallet-Besitzer kannte. \"Ich gebe dir den nächsten Schlüssel\", sagt er, \"aber nur, wenn du mir beweist, dass du kein Jäger bist.\"",
			ChapterNumber: 3,
			ImageURL:      "https://images.kryptomurat.live/chapters/hacker.jpg",
			NFTRequired:   true,
			Choices: []models.Choice{
				{
					Text:             "Die eigene Wallet-Historie offenlegen",
					ReputationChange: 2,
				},
				{
					Text:             "Cipher ein Gegenangebot machen",
					ReputationChange: 0,
					StoryPath:        "dealmaker",
				},
			},
			UnlockRequirements: models.UnlockRequirements{
				CompletedChapters: []string{"chapter_1", "chapter_2"},
			},
		},
	}
}
