// Package seed fills empty collections with sample catalog data on startup.
package seed

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/imrishuroy/go-herbal-store/internal/schema"
	"github.com/imrishuroy/go-herbal-store/internal/store"
)

// Run inserts the sample products and articles into each collection that is empty.
// It is best-effort: errors are logged at debug level and never returned.
func Run(ctx context.Context, s store.Store, logger log.FieldLogger) {
	if !store.IsAvailable(s) {
		return
	}
	if logger == nil {
		logger = log.StandardLogger()
	}

	for _, c := range []struct {
		collection string
		docs       []store.Document
	}{
		{schema.Products, Products()},
		{schema.Articles, Articles()},
	} {
		inserted, err := seedCollection(ctx, s, c.collection, c.docs)
		if err != nil {
			logger.WithError(err).WithField("collection", c.collection).Debug("seeding skipped")
			return
		}
		if inserted > 0 {
			logger.WithFields(log.Fields{"collection": c.collection, "count": inserted}).Info("seeded sample data")
		}
	}
}

func seedCollection(ctx context.Context, s store.Store, collection string, docs []store.Document) (int, error) {
	n, err := s.CountDocuments(ctx, collection, nil)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	for i, d := range docs {
		if _, err := s.CreateDocument(ctx, collection, d); err != nil {
			return i, err
		}
	}
	return len(docs), nil
}

// Products returns the sample products.
func Products() []store.Document {
	return []store.Document{
		{
			"name":        "Teh Jahe Hangat",
			"description": "Campuran jahe dan rempah untuk menghangatkan tubuh dan melancarkan pencernaan.",
			"price":       35000.0,
			"category":    "Teh",
			"in_stock":    true,
			"image":       "https://images.unsplash.com/photo-1512314889357-e157c22f938d",
			"ingredients": []interface{}{"Jahe", "Kayu Manis", "Cengkeh"},
			"usage":       "Seduh 1 sachet dengan 200ml air panas, minum 2x sehari.",
		},
		{
			"name":        "Minyak Kayu Putih Alami",
			"description": "Minyak esensial untuk meredakan pegal, masuk angin, dan memberikan rasa hangat.",
			"price":       42000.0,
			"category":    "Minyak",
			"in_stock":    true,
			"image":       "https://images.unsplash.com/photo-1615485737651-6df9d6f5e3c1",
			"ingredients": []interface{}{"Kayu Putih"},
			"usage":       "Oleskan secukupnya pada area yang diperlukan.",
		},
		{
			"name":        "Kapsul Kunyit Asam",
			"description": "Suplemen herbal untuk membantu menjaga kesehatan pencernaan dan stamina.",
			"price":       59000.0,
			"category":    "Suplemen",
			"in_stock":    true,
			"image":       "https://images.unsplash.com/photo-1615485290353-2e9d6f8897f0",
			"ingredients": []interface{}{"Kunyit", "Asam Jawa"},
			"usage":       "2 kapsul setelah makan pagi dan malam.",
		},
	}
}

// Articles returns the sample articles.
func Articles() []store.Document {
	return []store.Document{
		{
			"title":       "Manfaat Jahe untuk Kesehatan",
			"summary":     "Jahe dikenal sebagai rempah serba guna. Berikut manfaat ilmiahnya.",
			"content":     "Jahe mengandung gingerol yang bersifat anti-inflamasi dan antioksidan...",
			"cover_image": "https://images.unsplash.com/photo-1604908176997-51f2d7f6f8e2",
			"tags":        []interface{}{"jahe", "pencernaan", "anti-inflamasi"},
		},
		{
			"title":       "Kunyit: Si Kuning yang Menyehatkan",
			"summary":     "Kunyit memiliki kurkumin yang bermanfaat untuk tubuh.",
			"content":     "Kurkumin pada kunyit telah diteliti membantu mengurangi peradangan...",
			"cover_image": "https://images.unsplash.com/photo-1615485737651-6df9d6f5e3c1",
			"tags":        []interface{}{"kunyit", "antioksidan"},
		},
	}
}
