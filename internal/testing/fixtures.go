package testing

// SampleCatalogCSV returns a small product catalog in the export format
func SampleCatalogCSV() string {
	return `displayTitle,embeddingText,url,imageUrl,productType,discount,price,variants,createDate,available
iPhone 12,Apple smartphone 64GB,https://shop.example.com/iphone-12,https://img.example.com/iphone-12.jpg,Technology,0,900.0 USD,Black 64GB,2023-05-01,true
Samsung Galaxy S21,Android smartphone,https://shop.example.com/galaxy-s21,https://img.example.com/galaxy-s21.jpg,Technology,5,799.0 USD,Phantom Gray,2023-04-12,true
Nike Air Max,Running shoes,https://shop.example.com/air-max,https://img.example.com/air-max.jpg,Clothing,10,120.0 USD,"42, 43, 44",2023-03-20,false
,Row without a title,https://shop.example.com/untitled,,Misc,0,1.0 USD,,2023-01-01,true
`
}

// SampleCurrenciesJSON returns a /currencies.json body
func SampleCurrenciesJSON() string {
	return `{"BTC":"Bitcoin","COP":"Colombian Peso","EUR":"Euro","GBP":"British Pound Sterling","USD":"United States Dollar"}`
}

// SampleLatestRatesJSON returns a /latest.json body with USD as base
func SampleLatestRatesJSON() string {
	return `{"disclaimer":"Usage subject to terms","license":"https://openexchangerates.org/license","timestamp":1700000000,"base":"USD","rates":{"BTC":0.000016,"COP":3984.5,"EUR":0.92,"GBP":0.8,"USD":1}}`
}
