package engine

import "device-inspector/internal/domain/entity"

var box = entity.BoundingBox{X1: 10, Y1: 10, X2: 50, Y2: 40}

func det(c entity.FeatureClass, conf float64) entity.Detection {
	return entity.Detection{Class: c, Box: box, Confidence: conf}
}

func btn(c entity.FeatureClass, pass bool, prob float64) entity.ROIClassification {
	return entity.ROIClassification{Class: c, Box: box, Probability: prob, Status: entity.PassIf(pass)}
}

func txt(lang entity.LanguageCode) entity.ROIClassification {
	return entity.ROIClassification{Class: entity.ClassText, Box: box, Probability: 0.9, Language: lang}
}

// passingDevice полный комплект годных признаков с кнопкой Back.
func passingDevice() ([]entity.Detection, []entity.ROIClassification) {
	dets := []entity.Detection{
		det(entity.ClassHome, 0.9),
		det(entity.ClassStatus, 0.9),
		det(entity.ClassScreenBig, 0.9),
		det(entity.ClassBack, 0.9),
	}
	cls := []entity.ROIClassification{
		btn(entity.ClassHome, true, 0.9),
		btn(entity.ClassStatus, true, 0.9),
		btn(entity.ClassBack, true, 0.9),
	}
	return dets, cls
}
