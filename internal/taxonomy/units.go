package taxonomy

import "github.com/KeremDpdo/research-publication-dashboard/pkg/contracts/domain"

var facultyNames = []string{
	"Mühendislik Fakültesi",
	"İktisadi ve İdari Bilimler Fakültesi",
	"Fen Edebiyat Fakültesi",
	"Eğitim Fakültesi",
	"Mimarlık Fakültesi",
	"Yabancı Diller Yüksek Okulu",
	"Rektörlük",
	"Fen Bilimleri Enstitüsü",
	"Deniz Bilimleri Enstitüsü",
	"Uygulamalı Matematik Enstitüsü",
	"Sosyal Bilimler Enstitüsü",
	"Enformatik Enstitüsü",
	"Meslek Yüksek Okulu",
}

var departmentNames = []string{
	"Aktüerya Bilimleri Anabilim Dalı",
	"Beden Eğitimi ve Spor Bölümü",
	"Bilgisayar Mühendisliği Bölümü",
	"Bilgisayar ve Öğretim Teknolojileri Eğitimi Bölümü",
	"Bilim ve Teknoloji Politikası Çalışmaları Anabilim Dalı",
	"Bilimsel Hesaplama Anabilim Dalı",
	"Bilişim Sistemleri Anabilim Dalı",
	"Bilişsel Bilimler Anabilim Dalı",
	"Biyolojik Bilimler Bölümü",
	"Çevre Mühendisliği Bölümü",
	"Deniz Bilimleri Anabilim Dalı",
	"Deniz Biyolojisi ve Balıkçılık Anabilim Dalı",
	"Deniz Jeolojisi ve Jeofiziği Anabilim Dalı",
	"Eğitim Bilimleri Bölümü",
	"Elektrik ve Elektronik Mühendisliği Bölümü",
	"Endüstri Mühendisliği Bölümü",
	"Endüstriyel Tasarım Bölümü",
	"Fen Bilimleri Enstitüsü",
	"Felsefe Bölümü",
	"Finansal Matematik Anabilim Dalı",
	"Fizik Bölümü",
	"Gıda Mühendisliği Bölümü",
	"Havacılık ve Uzay Mühendisliği Bölümü",
	"İktisat Bölümü",
	"İnşaat Mühendisliği Bölümü",
	"İstatistik Bölümü",
	"Jeoloji Mühendisliği Bölümü",
	"Kimya Bölümü",
	"Kimya Mühendisliği Bölümü",
	"Kriptografi Anabilim Dalı",
	"Maden Mühendisliği Bölümü",
	"Makina Mühendisliği Bölümü",
	"Matematik Bölümü",
	"Matematik ve Fen Bilimleri Eğitimi Bölümü",
	"Meslek Yüksek Okulu",
	"Metalurji ve Malzeme Mühendisliği Bölümü",
	"Mimarlık Bölümü",
	"Modelleme ve Simülasyon Anabilim Dalı",
	"Modern Diller Bölümü",
	"Mühendislik Bilimleri Bölümü",
	"Müzik ve Güzel Sanatlar Bölümü",
	"Petrol ve Doğal Gaz Mühendisliği Bölümü",
	"Psikoloji Bölümü",
	"Sağlık Bilişimi Anabilim Dalı",
	"Siber Güvenlik Anabilim Dalı",
	"Siyaset Bilimi ve Kamu Yönetimi Bölümü",
	"Sosyoloji Bölümü",
	"Şehir ve Bölge Planlama Bölümü",
	"Tarih Bölümü",
	"Temel Eğitim Bölümü",
	"Türk Dili Bölümü",
	"Uluslararası İlişkiler Bölümü",
	"Veri Bilişimi Anabilim Dalı",
	"Yabancı Diller Bölümü",
	"Yabancı Diller Eğitimi Bölümü",
}

var (
	// Faculties is the canonical faculty vocabulary
	Faculties = identityVocabulary(facultyNames, domain.UnknownValue)
	// Departments is the canonical department vocabulary
	Departments = identityVocabulary(departmentNames, domain.UnknownValue)
)
